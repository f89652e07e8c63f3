package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewRefsCommand creates the refs command group.
func NewRefsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "refs",
		Aliases: []string{"ref"},
		Short:   "Manage git references",
		Long:    "Inspect and change git references such as branch heads and tags",
	}

	cmd.AddCommand(newRefsGetCommand())
	cmd.AddCommand(newRefsListCommand())
	cmd.AddCommand(newRefsCreateCommand())
	cmd.AddCommand(newRefsUpdateCommand())
	cmd.AddCommand(newRefsDeleteCommand())

	return cmd
}

func newRefsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get REF",
		Short: "Get a reference",
		Long:  "Fetch a single reference, e.g. heads/main or tags/v1.0.0",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			repo, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			reference, err := client.References().Get(ctx, repo, args[0])
			if err != nil {
				return fmt.Errorf("failed to get reference: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(reference)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(reference)
			default:
				fmt.Printf("Reference: %s\n", reference.Ref)
				fmt.Printf("  Type: %s\n", reference.Object.Type)
				fmt.Printf("  SHA:  %s\n", reference.Object.SHA)
			}

			return nil
		},
	}
}

func newRefsListCommand() *cobra.Command {
	var perPage int

	cmd := &cobra.Command{
		Use:   "list PREFIX",
		Short: "List references matching a prefix",
		Long:  "List references under a namespace prefix, e.g. heads/ or tags/",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			repo, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			references, err := client.References().ListMatching(ctx, repo, args[0], listParams(perPage))
			if err != nil {
				return fmt.Errorf("failed to list references: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(references)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(references)
			default:
				if len(references) == 0 {
					fmt.Println("No references found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Ref", "Type", "SHA")

				for _, reference := range references {
					_ = table.Append(
						reference.Ref,
						reference.Object.Type,
						shortSHA(reference.Object.SHA),
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

func newRefsCreateCommand() *cobra.Command {
	var sha string

	cmd := &cobra.Command{
		Use:   "create REF",
		Short: "Create a reference",
		Long:  "Create a reference pointing at a commit, e.g. refs/heads/feature-x",
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

			repo, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			request := &ghapi.ReferenceCreateRequest{
				Ref: args[0],
				SHA: sha,
			}

			reference, err := client.References().Create(ctx, repo, request)
			if err != nil {
				return fmt.Errorf("failed to create reference: %w", err)
			}

			fmt.Printf("Created %s at %s\n", reference.Ref, shortSHA(reference.Object.SHA))

			return nil
		},
	}

	cmd.Flags().StringVar(&sha, "sha", "", "commit SHA the reference points at (required)")
	_ = cmd.MarkFlagRequired("sha")

	return cmd
}

func newRefsUpdateCommand() *cobra.Command {
	var (
		sha   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "update REF",
		Short: "Move a reference",
		Long:  "Point a reference at a different commit. Non-fast-forward moves need --force.",
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

			repo, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			request := &ghapi.ReferenceUpdateRequest{
				SHA:   sha,
				Force: force,
			}

			reference, err := client.References().Update(ctx, repo, args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update reference: %w", err)
			}

			fmt.Printf("Moved %s to %s\n", reference.Ref, shortSHA(reference.Object.SHA))

			return nil
		},
	}

	cmd.Flags().StringVar(&sha, "sha", "", "commit SHA to move the reference to (required)")
	cmd.Flags().BoolVar(&force, "force", false, "allow non-fast-forward updates")
	_ = cmd.MarkFlagRequired("sha")

	return cmd
}

func newRefsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete REF",
		Short: "Delete a reference",
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

			repo, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			err = client.References().Delete(ctx, repo, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete reference: %w", err)
			}

			fmt.Printf("Deleted %s\n", args[0])

			return nil
		},
	}
}
