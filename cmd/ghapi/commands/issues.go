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

// NewIssuesCommand creates the issues command group.
func NewIssuesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "issues",
		Aliases: []string{"issue"},
		Short:   "Manage issues",
		Long:    "List, inspect and change issues in a repository",
	}

	cmd.AddCommand(newIssuesListCommand())
	cmd.AddCommand(newIssuesGetCommand())
	cmd.AddCommand(newIssuesCreateCommand())
	cmd.AddCommand(newIssuesCloseCommand())
	cmd.AddCommand(newIssuesReopenCommand())
	cmd.AddCommand(newIssuesLockCommand())
	cmd.AddCommand(newIssuesUnlockCommand())
	cmd.AddCommand(newIssueCommentsCommand())

	return cmd
}

// parseIssueNumber converts a positional NUMBER argument.
func parseIssueNumber(arg string) (int, error) {
	number, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: issue number %q", ghapi.ErrInvalidArgument, arg)
	}

	return number, nil
}

func newIssuesListCommand() *cobra.Command {
	var (
		state   string
		labels  []string
		perPage int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issues",
		Long:  "List the issues of the selected repository",
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

			if len(labels) > 0 {
				params.WithLabels(labels...)
			}

			issues, err := client.Issues().List(ctx, ref, params)
			if err != nil {
				return fmt.Errorf("failed to list issues: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(issues)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(issues)
			default:
				if len(issues) == 0 {
					fmt.Println("No issues found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Number", "State", "Title", "Author", "Labels", "Comments")

				for _, issue := range issues {
					// The issues endpoints return pull requests too;
					// keep the listing to actual issues.
					if issue.PullRequest != nil {
						continue
					}

					_ = table.Append(
						strconv.Itoa(issue.Number),
						issue.State,
						truncate(issue.Title, constants.TitleDisplayLength),
						loginName(issue.User),
						labelNames(issue.Labels),
						strconv.Itoa(issue.Comments),
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

	cmd.Flags().StringVar(&state, "state", "", "issue state (open, closed, all)")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "label filter, repeatable")
	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPerPage, "results per page")

	return cmd
}

func newIssuesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NUMBER",
		Short: "Get issue details",
		Long:  "Display detailed information about a single issue",
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

			ref, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			issue, err := client.Issues().Get(ctx, ref, number)
			if err != nil {
				return fmt.Errorf("failed to get issue: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(issue)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(issue)
			default:
				fmt.Printf("Issue #%d: %s\n", issue.Number, issue.Title)
				fmt.Printf("  State:    %s\n", issue.State)
				fmt.Printf("  Author:   %s\n", loginName(issue.User))
				fmt.Printf("  Created:  %s\n", formatTime(issue.CreatedAt))
				fmt.Printf("  Comments: %d\n", issue.Comments)
				fmt.Printf("  Locked:   %s\n", yesNo(issue.Locked))

				if names := labelNames(issue.Labels); names != "" {
					fmt.Printf("  Labels:   %s\n", names)
				}

				if issue.Milestone != nil {
					fmt.Printf("  Milestone: %s\n", issue.Milestone.Title)
				}

				if issue.Body != "" {
					fmt.Printf("\n%s\n", truncate(issue.Body, constants.BodyDisplayLength))
				}
			}

			return nil
		},
	}
}

func newIssuesCreateCommand() *cobra.Command {
	var (
		title     string
		body      string
		labels    []string
		assignees []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an issue",
		Long:  "Open a new issue in the selected repository",
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

			request := &ghapi.IssueCreateRequest{
				Title:     title,
				Body:      body,
				Labels:    labels,
				Assignees: assignees,
			}

			issue, err := client.Issues().Create(ctx, ref, request)
			if err != nil {
				return fmt.Errorf("failed to create issue: %w", err)
			}

			fmt.Printf("Created issue #%d: %s\n", issue.Number, issue.HTMLURL)

			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "issue title (required)")
	cmd.Flags().StringVarP(&body, "body", "b", "", "issue body")
	cmd.Flags().StringSliceVar(&labels, "label", nil, "label to apply, repeatable")
	cmd.Flags().StringSliceVar(&assignees, "assignee", nil, "login to assign, repeatable")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// updateIssueState is shared by the close and reopen commands.
func updateIssueState(numberArg, state, stateReason string) error {
	number, err := parseIssueNumber(numberArg)
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

	ref, err := resolveRepository(ctx, client)
	if err != nil {
		return err
	}

	request := &ghapi.IssueUpdateRequest{State: &state}
	if stateReason != "" {
		request.StateReason = &stateReason
	}

	issue, err := client.Issues().Update(ctx, ref, number, request)
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}

	fmt.Printf("Issue #%d is now %s\n", issue.Number, issue.State)

	return nil
}

func newIssuesCloseCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "close NUMBER",
		Short: "Close an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateIssueState(args[0], constants.IssueStateClosed, reason)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "close reason (completed, not_planned)")

	return cmd
}

func newIssuesReopenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen NUMBER",
		Short: "Reopen an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateIssueState(args[0], constants.IssueStateOpen, "")
		},
	}
}

func newIssuesLockCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "lock NUMBER",
		Short: "Lock an issue conversation",
		Args:  cobra.ExactArgs(1),
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

			ref, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			var request *ghapi.IssueLockRequest
			if reason != "" {
				request = &ghapi.IssueLockRequest{LockReason: reason}
			}

			err = client.Issues().Lock(ctx, ref, number, request)
			if err != nil {
				return fmt.Errorf("failed to lock issue: %w", err)
			}

			fmt.Printf("Locked issue #%d\n", number)

			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "lock reason (off-topic, too heated, resolved, spam)")

	return cmd
}

func newIssuesUnlockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock NUMBER",
		Short: "Unlock an issue conversation",
		Args:  cobra.ExactArgs(1),
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

			ref, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			err = client.Issues().Unlock(ctx, ref, number)
			if err != nil {
				return fmt.Errorf("failed to unlock issue: %w", err)
			}

			fmt.Printf("Unlocked issue #%d\n", number)

			return nil
		},
	}
}

func newIssueCommentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"comment"},
		Short:   "Manage issue comments",
	}

	cmd.AddCommand(newIssueCommentsListCommand())
	cmd.AddCommand(newIssueCommentsAddCommand())
	cmd.AddCommand(newIssueCommentsUpdateCommand())
	cmd.AddCommand(newIssueCommentsDeleteCommand())

	return cmd
}

func newIssueCommentsListCommand() *cobra.Command {
	var perPage int

	cmd := &cobra.Command{
		Use:   "list NUMBER",
		Short: "List comments on an issue",
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

			ref, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			comments, err := client.IssueComments().List(ctx, ref, number, listParams(perPage))
			if err != nil {
				return fmt.Errorf("failed to list comments: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(comments)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(comments)
			default:
				if len(comments) == 0 {
					fmt.Println("No comments found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Author", "Created", "Body")

				for _, comment := range comments {
					_ = table.Append(
						strconv.FormatInt(comment.ID, 10),
						loginName(comment.User),
						formatTime(comment.CreatedAt),
						truncate(comment.Body, constants.BodyDisplayLength),
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

func newIssueCommentsAddCommand() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "add NUMBER",
		Short: "Comment on an issue",
		Args:  cobra.ExactArgs(1),
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

			ref, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			request := &ghapi.IssueCommentRequest{Body: body}

			comment, err := client.IssueComments().Create(ctx, ref, number, request)
			if err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}

			fmt.Printf("Added comment %d: %s\n", comment.ID, comment.HTMLURL)

			return nil
		},
	}

	cmd.Flags().StringVarP(&body, "body", "b", "", "comment text (required)")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newIssueCommentsUpdateCommand() *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "update COMMENT_ID",
		Short: "Edit an issue comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commentID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: comment id %q", ghapi.ErrInvalidArgument, args[0])
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

			ref, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			request := &ghapi.IssueCommentRequest{Body: body}

			comment, err := client.IssueComments().Update(ctx, ref, commentID, request)
			if err != nil {
				return fmt.Errorf("failed to update comment: %w", err)
			}

			fmt.Printf("Updated comment %d\n", comment.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&body, "body", "b", "", "replacement text (required)")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newIssueCommentsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete COMMENT_ID",
		Short: "Delete an issue comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commentID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%w: comment id %q", ghapi.ErrInvalidArgument, args[0])
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

			ref, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			err = client.IssueComments().Delete(ctx, ref, commentID)
			if err != nil {
				return fmt.Errorf("failed to delete comment: %w", err)
			}

			fmt.Printf("Deleted comment %d\n", commentID)

			return nil
		},
	}
}
