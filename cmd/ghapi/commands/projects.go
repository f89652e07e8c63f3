package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewProjectsCommand creates the projects command group.
func NewProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Manage classic project boards",
		Long:    "List, create and change classic project boards on a repository",
	}

	cmd.AddCommand(newProjectsListCommand())
	cmd.AddCommand(newProjectsGetCommand())
	cmd.AddCommand(newProjectsCreateCommand())
	cmd.AddCommand(newProjectsUpdateCommand())
	cmd.AddCommand(newProjectsDeleteCommand())

	return cmd
}

// parseProjectID converts a positional PROJECT_ID argument.
func parseProjectID(arg string) (int64, error) {
	projectID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: project id %q", ghapi.ErrInvalidArgument, arg)
	}

	return projectID, nil
}

func newProjectsListCommand() *cobra.Command {
	var (
		state   string
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List project boards",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			ref, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			params := listParams(perPage)
			if state != "" {
				params.WithState(state)
			}

			projects, err := client.Projects().ListForRepo(ctx, ref, params)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(projects)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(projects)
			default:
				if len(projects) == 0 {
					fmt.Println("No projects found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Number", "Name", "State", "Creator")

				for _, project := range projects {
					_ = table.Append(
						strconv.FormatInt(project.ID, 10),
						strconv.Itoa(project.Number),
						truncate(project.Name, constants.TitleDisplayLength),
						project.State,
						loginName(project.Creator),
					)
				}

				err := table.Render()
				if err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "board state (open, closed, all)")
	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPerPage, "results per page")

	return cmd
}

func newProjectsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PROJECT_ID",
		Short: "Get project board details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseProjectID(args[0])
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			project, err := client.Projects().Get(ctx, projectID)
			if err != nil {
				return fmt.Errorf("failed to get project: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(project)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(project)
			default:
				fmt.Printf("Project #%d: %s\n", project.Number, project.Name)
				fmt.Printf("  ID:      %d\n", project.ID)
				fmt.Printf("  State:   %s\n", project.State)
				fmt.Printf("  Creator: %s\n", loginName(project.Creator))
				fmt.Printf("  Created: %s\n", formatTime(project.CreatedAt))

				if project.Body != "" {
					fmt.Printf("\n%s\n", truncate(project.Body, constants.BodyDisplayLength))
				}
			}

			return nil
		},
	}
}

func newProjectsCreateCommand() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireToken()
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			ref, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			request := &ghapi.ProjectCreateRequest{
				Name: args[0],
				Body: body,
			}

			project, err := client.Projects().CreateForRepo(ctx, ref, request)
			if err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}

			fmt.Printf("Created project #%d (id %d)\n", project.Number, project.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&body, "body", "b", "", "board description")

	return cmd
}

func newProjectsUpdateCommand() *cobra.Command {
	var (
		name  string
		body  string
		state string
	)

	cmd := &cobra.Command{
		Use:   "update PROJECT_ID",
		Short: "Update a project board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseProjectID(args[0])
			if err != nil {
				return err
			}

			err = requireToken()
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			request := &ghapi.ProjectUpdateRequest{}
			if name != "" {
				request.Name = &name
			}

			if cmd.Flags().Changed("body") {
				request.Body = &body
			}

			if state != "" {
				request.State = &state
			}

			project, err := client.Projects().Update(ctx, projectID, request)
			if err != nil {
				return fmt.Errorf("failed to update project: %w", err)
			}

			fmt.Printf("Updated project #%d\n", project.Number)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "rename the board")
	cmd.Flags().StringVarP(&body, "body", "b", "", "board description")
	cmd.Flags().StringVar(&state, "state", "", "board state (open, closed)")

	return cmd
}

func newProjectsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PROJECT_ID",
		Short: "Delete a project board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseProjectID(args[0])
			if err != nil {
				return err
			}

			err = requireToken()
			if err != nil {
				return err
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			err = client.Projects().Delete(ctx, projectID)
			if err != nil {
				return fmt.Errorf("failed to delete project: %w", err)
			}

			fmt.Printf("Deleted project %d\n", projectID)

			return nil
		},
	}
}
