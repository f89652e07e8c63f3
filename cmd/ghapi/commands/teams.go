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

// NewTeamsCommand creates the teams command group.
func NewTeamsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "teams",
		Aliases: []string{"team"},
		Short:   "Manage organization teams",
		Long:    "List, create and change teams in an organization",
	}

	cmd.AddCommand(newTeamsListCommand())
	cmd.AddCommand(newTeamsGetCommand())
	cmd.AddCommand(newTeamsCreateCommand())
	cmd.AddCommand(newTeamsUpdateCommand())
	cmd.AddCommand(newTeamsDeleteCommand())
	cmd.AddCommand(newTeamsMembersCommand())

	return cmd
}

func newTeamsListCommand() *cobra.Command {
	var perPage int

	cmd := &cobra.Command{
		Use:   "list ORG",
		Short: "List teams",
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

			teams, err := client.Teams().List(ctx, args[0], listParams(perPage))
			if err != nil {
				return fmt.Errorf("failed to list teams: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(teams)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(teams)
			default:
				if len(teams) == 0 {
					fmt.Println("No teams found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Slug", "Name", "Privacy", "Description")

				for _, team := range teams {
					_ = table.Append(
						team.Slug,
						team.Name,
						team.Privacy,
						truncate(team.Description, constants.TitleDisplayLength),
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

	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPerPage, "results per page")

	return cmd
}

func newTeamsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ORG SLUG",
		Short: "Get team details",
		Args:  cobra.ExactArgs(constants.KeyValueSplitParts),
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

			team, err := client.Teams().Get(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get team: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(team)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(team)
			default:
				fmt.Printf("Team: %s\n", team.Name)
				fmt.Printf("  Slug:    %s\n", team.Slug)
				fmt.Printf("  Privacy: %s\n", team.Privacy)
				fmt.Printf("  Members: %d\n", team.MembersCount)
				fmt.Printf("  Repos:   %d\n", team.ReposCount)

				if team.Description != "" {
					fmt.Printf("  Description: %s\n", team.Description)
				}
			}

			return nil
		},
	}
}

func newTeamsCreateCommand() *cobra.Command {
	var (
		description string
		privacy     string
		maintainers []string
		repoNames   []string
	)

	cmd := &cobra.Command{
		Use:   "create ORG NAME",
		Short: "Create a team",
		Args:  cobra.ExactArgs(constants.KeyValueSplitParts),
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

			request := &ghapi.TeamCreateRequest{
				Name:        args[1],
				Description: description,
				Privacy:     privacy,
				Maintainers: maintainers,
				RepoNames:   repoNames,
			}

			team, err := client.Teams().Create(ctx, args[0], request)
			if err != nil {
				return fmt.Errorf("failed to create team: %w", err)
			}

			fmt.Printf("Created team '%s' (slug: %s)\n", team.Name, team.Slug)

			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "team description")
	cmd.Flags().StringVar(&privacy, "privacy", "", "team visibility (secret, closed)")
	cmd.Flags().StringSliceVar(&maintainers, "maintainer", nil, "login to add as maintainer, repeatable")
	cmd.Flags().StringSliceVar(&repoNames, "repo", nil, "owner/name repository to grant, repeatable")

	return cmd
}

func newTeamsUpdateCommand() *cobra.Command {
	var (
		name        string
		description string
		privacy     string
	)

	cmd := &cobra.Command{
		Use:   "update ORG SLUG",
		Short: "Update a team",
		Args:  cobra.ExactArgs(constants.KeyValueSplitParts),
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

			request := &ghapi.TeamUpdateRequest{}
			if name != "" {
				request.Name = &name
			}

			if cmd.Flags().Changed("description") {
				request.Description = &description
			}

			if privacy != "" {
				request.Privacy = &privacy
			}

			team, err := client.Teams().Update(ctx, args[0], args[1], request)
			if err != nil {
				return fmt.Errorf("failed to update team: %w", err)
			}

			fmt.Printf("Updated team '%s'\n", team.Slug)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "rename the team")
	cmd.Flags().StringVar(&description, "description", "", "team description")
	cmd.Flags().StringVar(&privacy, "privacy", "", "team visibility (secret, closed)")

	return cmd
}

func newTeamsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ORG SLUG",
		Short: "Delete a team",
		Args:  cobra.ExactArgs(constants.KeyValueSplitParts),
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

			err = client.Teams().Delete(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to delete team: %w", err)
			}

			fmt.Printf("Deleted team '%s'\n", args[1])

			return nil
		},
	}
}

func newTeamsMembersCommand() *cobra.Command {
	var perPage int

	cmd := &cobra.Command{
		Use:   "members ORG SLUG",
		Short: "List team members",
		Args:  cobra.ExactArgs(constants.KeyValueSplitParts),
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

			members, err := client.Teams().ListMembers(ctx, args[0], args[1], listParams(perPage))
			if err != nil {
				return fmt.Errorf("failed to list team members: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(members)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(members)
			default:
				if len(members) == 0 {
					fmt.Println("No members found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Login", "ID", "Type")

				for _, member := range members {
					_ = table.Append(
						member.Login,
						strconv.FormatInt(member.ID, 10),
						member.Type,
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

	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPerPage, "results per page")

	return cmd
}
