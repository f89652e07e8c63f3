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

// NewReactionsCommand creates the reactions command group.
func NewReactionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reactions",
		Aliases: []string{"reaction"},
		Short:   "Manage issue reactions",
		Long:    "List, add and remove emoji reactions on issues",
	}

	cmd.AddCommand(newReactionsListCommand())
	cmd.AddCommand(newReactionsAddCommand())
	cmd.AddCommand(newReactionsRemoveCommand())

	return cmd
}

func newReactionsListCommand() *cobra.Command {
	var perPage int

	cmd := &cobra.Command{
		Use:   "list NUMBER",
		Short: "List reactions on an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseIssueNumber(args[0])
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

			reactions, err := client.Reactions().ListForIssue(ctx, repo, number, listParams(perPage))
			if err != nil {
				return fmt.Errorf("failed to list reactions: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(reactions)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(reactions)
			default:
				if len(reactions) == 0 {
					fmt.Println("No reactions found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Content", "User", "Created")

				for _, reaction := range reactions {
					_ = table.Append(
						strconv.FormatInt(reaction.ID, 10),
						reaction.Content,
						loginName(reaction.User),
						formatTime(reaction.CreatedAt),
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

func newReactionsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add NUMBER CONTENT",
		Short: "React to an issue",
		Long:  "Add a reaction to an issue. Content is one of +1, -1, laugh, confused, heart, hooray, rocket, eyes.",
		Args:  cobra.ExactArgs(constants.KeyValueSplitParts),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseIssueNumber(args[0])
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

			repo, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			reaction, err := client.Reactions().CreateForIssue(ctx, repo, number, args[1])
			if err != nil {
				return fmt.Errorf("failed to add reaction: %w", err)
			}

			fmt.Printf("Added %s to issue #%d (reaction %d)\n", reaction.Content, number, reaction.ID)

			return nil
		},
	}
}

func newReactionsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NUMBER REACTION_ID",
		Short: "Remove a reaction from an issue",
		Args:  cobra.ExactArgs(constants.KeyValueSplitParts),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parseIssueNumber(args[0])
			if err != nil {
				return err
			}

			reactionID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: reaction id %q", ghapi.ErrInvalidArgument, args[1])
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

			repo, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			err = client.Reactions().DeleteForIssue(ctx, repo, number, reactionID)
			if err != nil {
				return fmt.Errorf("failed to remove reaction: %w", err)
			}

			fmt.Printf("Removed reaction %d from issue #%d\n", reactionID, number)

			return nil
		},
	}
}
