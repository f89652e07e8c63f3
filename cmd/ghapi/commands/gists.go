package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewGistsCommand creates the gists command group.
func NewGistsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gists",
		Aliases: []string{"gist"},
		Short:   "Manage gists",
		Long:    "List, create and change gists for the authenticated user",
	}

	cmd.AddCommand(newGistsListCommand())
	cmd.AddCommand(newGistsGetCommand())
	cmd.AddCommand(newGistsCreateCommand())
	cmd.AddCommand(newGistsDeleteCommand())
	cmd.AddCommand(newGistsStarCommand())
	cmd.AddCommand(newGistsUnstarCommand())
	cmd.AddCommand(newGistsForkCommand())

	return cmd
}

func newGistsListCommand() *cobra.Command {
	var (
		username string
		perPage  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List gists",
		Long:  "List the authenticated user's gists, or another user's public gists with --user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			params := listParams(perPage)

			var gists []ghapi.Gist
			if username != "" {
				gists, err = client.Gists().ListForUser(ctx, username, params)
			} else {
				if err := requireToken(); err != nil {
					return err
				}

				gists, err = client.Gists().List(ctx, params)
			}

			if err != nil {
				return fmt.Errorf("failed to list gists: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(gists)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(gists)
			default:
				if len(gists) == 0 {
					fmt.Println("No gists found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Description", "Files", "Public", "Updated")

				for _, gist := range gists {
					_ = table.Append(
						gist.ID,
						truncate(gist.Description, constants.TitleDisplayLength),
						strconv.Itoa(len(gist.Files)),
						yesNo(gist.Public),
						formatTime(gist.UpdatedAt),
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

	cmd.Flags().StringVarP(&username, "user", "u", "", "list another user's public gists")
	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPerPage, "results per page")

	return cmd
}

func newGistsGetCommand() *cobra.Command {
	var showContent bool

	cmd := &cobra.Command{
		Use:   "get GIST_ID",
		Short: "Get gist details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			gist, err := client.Gists().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get gist: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(gist)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(gist)
			default:
				fmt.Printf("Gist: %s\n", gist.ID)
				fmt.Printf("  Owner:       %s\n", loginName(gist.Owner))
				fmt.Printf("  Public:      %s\n", yesNo(gist.Public))
				fmt.Printf("  Created:     %s\n", formatTime(gist.CreatedAt))
				fmt.Printf("  URL:         %s\n", gist.HTMLURL)

				if gist.Description != "" {
					fmt.Printf("  Description: %s\n", gist.Description)
				}

				fmt.Println("  Files:")

				for name, file := range gist.Files {
					fmt.Printf("    %s (%d bytes)\n", name, file.Size)

					if showContent {
						fmt.Println(file.Content)
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showContent, "content", false, "print file contents")

	return cmd
}

func newGistsCreateCommand() *cobra.Command {
	var (
		description string
		public      bool
	)

	cmd := &cobra.Command{
		Use:   "create FILE...",
		Short: "Create a gist",
		Long:  "Create a gist from one or more local files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireToken()
			if err != nil {
				return err
			}

			files := make(map[string]ghapi.GistFileContent, len(args))

			for _, path := range args {
				data, err := readLocalFile(path)
				if err != nil {
					return err
				}

				files[filepath.Base(path)] = ghapi.GistFileContent{Content: string(data)}
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			request := &ghapi.GistCreateRequest{
				Description: description,
				Public:      public,
				Files:       files,
			}

			gist, err := client.Gists().Create(ctx, request)
			if err != nil {
				return fmt.Errorf("failed to create gist: %w", err)
			}

			fmt.Printf("Created gist %s: %s\n", gist.ID, gist.HTMLURL)

			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "gist description")
	cmd.Flags().BoolVar(&public, "public", false, "make the gist public")

	return cmd
}

func newGistsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete GIST_ID",
		Short: "Delete a gist",
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

			err = client.Gists().Delete(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete gist: %w", err)
			}

			fmt.Printf("Deleted gist %s\n", args[0])

			return nil
		},
	}
}

func newGistsStarCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "star GIST_ID",
		Short: "Star a gist",
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

			err = client.Gists().Star(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to star gist: %w", err)
			}

			fmt.Printf("Starred gist %s\n", args[0])

			return nil
		},
	}
}

func newGistsUnstarCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unstar GIST_ID",
		Short: "Unstar a gist",
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

			err = client.Gists().Unstar(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to unstar gist: %w", err)
			}

			fmt.Printf("Unstarred gist %s\n", args[0])

			return nil
		},
	}
}

func newGistsForkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fork GIST_ID",
		Short: "Fork a gist",
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

			fork, err := client.Gists().Fork(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to fork gist: %w", err)
			}

			fmt.Printf("Forked gist as %s: %s\n", fork.ID, fork.HTMLURL)

			return nil
		},
	}
}
