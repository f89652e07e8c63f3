package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewBranchesCommand creates the branches command group.
func NewBranchesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branches",
		Aliases: []string{"branch"},
		Short:   "Manage branches",
		Long:    "List branches and manage their protection rules",
	}

	cmd.AddCommand(newBranchesListCommand())
	cmd.AddCommand(newBranchesGetCommand())
	cmd.AddCommand(newBranchesProtectionCommand())
	cmd.AddCommand(newBranchesProtectCommand())
	cmd.AddCommand(newBranchesUnprotectCommand())

	return cmd
}

func newBranchesListCommand() *cobra.Command {
	var (
		perPage       int
		protectedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List branches",
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
			if protectedOnly {
				params.WithFilter("protected", "true")
			}

			branches, err := client.Branches().List(ctx, ref, params)
			if err != nil {
				return fmt.Errorf("failed to list branches: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(branches)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(branches)
			default:
				if len(branches) == 0 {
					fmt.Println("No branches found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Name", "Commit", "Protected")

				for _, branch := range branches {
					_ = table.Append(
						branch.Name,
						shortSHA(branch.Commit.SHA),
						yesNo(branch.Protected),
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
	cmd.Flags().BoolVar(&protectedOnly, "protected", false, "only list protected branches")

	return cmd
}

// shortSHA abbreviates a commit SHA for table display.
func shortSHA(sha string) string {
	if len(sha) > constants.ShortSHALength {
		return sha[:constants.ShortSHALength]
	}

	return sha
}

func newBranchesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get BRANCH",
		Short: "Get branch details",
		Args:  cobra.ExactArgs(1),
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

			branch, err := client.Branches().Get(ctx, ref, args[0])
			if err != nil {
				return fmt.Errorf("failed to get branch: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(branch)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(branch)
			default:
				fmt.Printf("Branch: %s\n", branch.Name)
				fmt.Printf("  Commit:    %s\n", branch.Commit.SHA)
				fmt.Printf("  Protected: %s\n", yesNo(branch.Protected))
			}

			return nil
		},
	}
}

func newBranchesProtectionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "protection BRANCH",
		Short: "Show branch protection",
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

			protection, err := client.Branches().GetProtection(ctx, ref, args[0])
			if err != nil {
				return fmt.Errorf("failed to get branch protection: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(protection)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(protection)
			default:
				fmt.Printf("Protection for %s:\n", args[0])

				if checks := protection.RequiredStatusChecks; checks != nil {
					fmt.Printf("  Required checks: %s (strict: %s)\n",
						strings.Join(checks.Contexts, ", "), yesNo(checks.Strict))
				}

				if protection.EnforceAdmins != nil {
					fmt.Printf("  Enforce admins:  %s\n", yesNo(protection.EnforceAdmins.Enabled))
				}

				if reviews := protection.RequiredPullRequestReviews; reviews != nil {
					fmt.Printf("  Required approvals: %d\n", reviews.RequiredApprovingReviewCount)
					fmt.Printf("  Dismiss stale:      %s\n", yesNo(reviews.DismissStaleReviews))
					fmt.Printf("  Code owner review:  %s\n", yesNo(reviews.RequireCodeOwnerReviews))
				}
			}

			return nil
		},
	}
}

func newBranchesProtectCommand() *cobra.Command {
	var (
		checks        []string
		strict        bool
		enforceAdmins bool
		approvals     int
		dismissStale  bool
		codeOwners    bool
	)

	cmd := &cobra.Command{
		Use:   "protect BRANCH",
		Short: "Protect a branch",
		Long:  "Apply a protection rule to a branch, replacing any existing rule",
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

			// The protection endpoint expects every section explicitly,
			// with null for sections being switched off.
			request := &ghapi.BranchProtectionRequest{
				EnforceAdmins: &enforceAdmins,
			}

			if len(checks) > 0 || strict {
				request.RequiredStatusChecks = &ghapi.RequiredStatusChecks{
					Strict:   strict,
					Contexts: checks,
				}
			}

			if approvals > 0 || dismissStale || codeOwners {
				request.RequiredPullRequestReviews = &ghapi.RequiredPullRequestReviews{
					DismissStaleReviews:          dismissStale,
					RequireCodeOwnerReviews:      codeOwners,
					RequiredApprovingReviewCount: approvals,
				}
			}

			protection, err := client.Branches().UpdateProtection(ctx, ref, args[0], request)
			if err != nil {
				return fmt.Errorf("failed to protect branch: %w", err)
			}

			fmt.Printf("Protected branch '%s'\n", args[0])

			if reviews := protection.RequiredPullRequestReviews; reviews != nil {
				fmt.Printf("  Required approvals: %s\n", strconv.Itoa(reviews.RequiredApprovingReviewCount))
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&checks, "check", nil, "required status check context, repeatable")
	cmd.Flags().BoolVar(&strict, "strict", false, "require branches to be up to date before merging")
	cmd.Flags().BoolVar(&enforceAdmins, "enforce-admins", false, "apply the rule to administrators too")
	cmd.Flags().IntVar(&approvals, "approvals", 0, "required approving review count")
	cmd.Flags().BoolVar(&dismissStale, "dismiss-stale", false, "dismiss stale reviews on new commits")
	cmd.Flags().BoolVar(&codeOwners, "code-owners", false, "require code owner review")

	return cmd
}

func newBranchesUnprotectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unprotect BRANCH",
		Short: "Remove branch protection",
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

			err = client.Branches().RemoveProtection(ctx, ref, args[0])
			if err != nil {
				return fmt.Errorf("failed to remove branch protection: %w", err)
			}

			fmt.Printf("Removed protection from '%s'\n", args[0])

			return nil
		},
	}
}
