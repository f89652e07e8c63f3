package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewLabelsCommand creates the labels command group.
func NewLabelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "labels",
		Aliases: []string{"label"},
		Short:   "Manage labels",
		Long:    "List, change and bulk-synchronize repository labels",
	}

	cmd.AddCommand(newLabelsListCommand())
	cmd.AddCommand(newLabelsGetCommand())
	cmd.AddCommand(newLabelsCreateCommand())
	cmd.AddCommand(newLabelsUpdateCommand())
	cmd.AddCommand(newLabelsDeleteCommand())
	cmd.AddCommand(newLabelsAddCommand())
	cmd.AddCommand(newLabelsRemoveCommand())
	cmd.AddCommand(newLabelsSetCommand())
	cmd.AddCommand(newLabelsSyncCommand())

	return cmd
}

func newLabelsListCommand() *cobra.Command {
	var perPage int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List labels",
		Long:  "List the labels defined in the selected repository",
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

			labels, err := client.Labels().List(ctx, ref, listParams(perPage))
			if err != nil {
				return fmt.Errorf("failed to list labels: %w", err)
			}

			return renderLabels(labels)
		},
	}

	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPerPage, "results per page")

	return cmd
}

// renderLabels prints a label collection in the configured output format.
func renderLabels(labels []ghapi.Label) error {
	output := viper.GetString("output")
	switch output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(labels)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		return encoder.Encode(labels)
	default:
		if len(labels) == 0 {
			fmt.Println("No labels found")

			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Name", "Color", "Description", "Default")

		for _, label := range labels {
			_ = table.Append(
				label.Name,
				label.Color,
				truncate(label.Description, constants.TitleDisplayLength),
				yesNo(label.Default),
			)
		}

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}

	return nil
}

func newLabelsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get label details",
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

			label, err := client.Labels().Get(ctx, ref, args[0])
			if err != nil {
				return fmt.Errorf("failed to get label: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(label)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(label)
			default:
				fmt.Printf("Label: %s\n", label.Name)
				fmt.Printf("  Color:       #%s\n", label.Color)
				fmt.Printf("  Default:     %s\n", yesNo(label.Default))

				if label.Description != "" {
					fmt.Printf("  Description: %s\n", label.Description)
				}
			}

			return nil
		},
	}
}

func newLabelsCreateCommand() *cobra.Command {
	var (
		color       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a label",
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

			request := &ghapi.LabelCreateRequest{
				Name:        args[0],
				Color:       strings.TrimPrefix(color, "#"),
				Description: description,
			}

			label, err := client.Labels().Create(ctx, ref, request)
			if err != nil {
				return fmt.Errorf("failed to create label: %w", err)
			}

			fmt.Printf("Created label '%s'\n", label.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "six digit hex color (required)")
	cmd.Flags().StringVar(&description, "description", "", "label description")
	_ = cmd.MarkFlagRequired("color")

	return cmd
}

func newLabelsUpdateCommand() *cobra.Command {
	var (
		newName     string
		color       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a label",
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

			request := &ghapi.LabelUpdateRequest{}
			if newName != "" {
				request.NewName = &newName
			}

			if color != "" {
				trimmed := strings.TrimPrefix(color, "#")
				request.Color = &trimmed
			}

			if cmd.Flags().Changed("description") {
				request.Description = &description
			}

			label, err := client.Labels().Update(ctx, ref, args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update label: %w", err)
			}

			fmt.Printf("Updated label '%s'\n", label.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "new-name", "", "rename the label")
	cmd.Flags().StringVar(&color, "color", "", "six digit hex color")
	cmd.Flags().StringVar(&description, "description", "", "label description")

	return cmd
}

func newLabelsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a label",
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

			err = client.Labels().Delete(ctx, ref, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete label: %w", err)
			}

			fmt.Printf("Deleted label '%s'\n", args[0])

			return nil
		},
	}
}

func newLabelsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add NUMBER LABEL...",
		Short: "Add labels to an issue",
		Args:  cobra.MinimumNArgs(constants.KeyValueSplitParts),
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

			labels, err := client.Labels().AddToIssue(ctx, ref, number, args[1:])
			if err != nil {
				return fmt.Errorf("failed to add labels: %w", err)
			}

			fmt.Printf("Issue #%d labels: %s\n", number, labelNames(labels))

			return nil
		},
	}
}

func newLabelsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NUMBER LABEL",
		Short: "Remove a label from an issue",
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

			ref, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			err = client.Labels().RemoveFromIssue(ctx, ref, number, args[1])
			if err != nil {
				return fmt.Errorf("failed to remove label: %w", err)
			}

			fmt.Printf("Removed '%s' from issue #%d\n", args[1], number)

			return nil
		},
	}
}

func newLabelsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set NUMBER [LABEL...]",
		Short: "Replace the labels on an issue",
		Long:  "Replace the full label set of an issue, clearing it when no labels are given",
		Args:  cobra.MinimumNArgs(1),
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

			labels, err := client.Labels().SetForIssue(ctx, ref, number, args[1:])
			if err != nil {
				return fmt.Errorf("failed to set labels: %w", err)
			}

			if len(labels) == 0 {
				fmt.Printf("Cleared labels on issue #%d\n", number)
			} else {
				fmt.Printf("Issue #%d labels: %s\n", number, labelNames(labels))
			}

			return nil
		},
	}
}

// labelSpec is one entry of a label sync manifest.
type labelSpec struct {
	Name        string `yaml:"name"`
	Color       string `yaml:"color"`
	Description string `yaml:"description,omitempty"`
}

func newLabelsSyncCommand() *cobra.Command {
	var (
		prune       bool
		dryRun      bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "sync FILE",
		Short: "Synchronize labels from a manifest",
		Long: "Reconcile the repository's labels with a YAML manifest, creating missing labels, " +
			"updating drifted ones and, with --prune, deleting labels the manifest does not mention. " +
			"Independent changes run concurrently.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireToken()
			if err != nil {
				return err
			}

			specs, err := readLabelManifest(args[0])
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

			existing, err := client.Labels().List(ctx, ref, nil)
			if err != nil {
				return fmt.Errorf("failed to list labels: %w", err)
			}

			operations, plan := buildLabelSyncPlan(ref, specs, existing, prune)
			if len(operations) == 0 {
				fmt.Println("Labels already in sync")

				return nil
			}

			for _, line := range plan {
				fmt.Println(line)
			}

			if dryRun {
				return nil
			}

			executor := ghapi.NewBatchExecutor(client, concurrency)

			results, err := executor.Execute(ctx, operations)
			if err != nil {
				return fmt.Errorf("failed to execute label sync: %w", err)
			}

			return reportSyncResults(results)
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "delete labels missing from the manifest")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without applying it")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "parallel API calls")

	return cmd
}

// readLabelManifest loads and validates a label sync manifest.
func readLabelManifest(path string) ([]labelSpec, error) {
	data, err := readLocalFile(path)
	if err != nil {
		return nil, err
	}

	var specs []labelSpec

	err = yaml.Unmarshal(data, &specs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: manifest entry %d has no name", ghapi.ErrInvalidArgument, i+1)
		}

		if spec.Color == "" {
			return nil, fmt.Errorf("%w: label %q has no color", ghapi.ErrInvalidArgument, spec.Name)
		}

		specs[i].Color = strings.TrimPrefix(spec.Color, "#")
	}

	return specs, nil
}

// buildLabelSyncPlan diffs the manifest against the repository's labels and
// returns the batch operations plus a human readable plan.
func buildLabelSyncPlan(
	ref ghapi.RepositoryRef,
	specs []labelSpec,
	existing []ghapi.Label,
	prune bool,
) ([]ghapi.BatchOperation, []string) {
	current := make(map[string]ghapi.Label, len(existing))
	for _, label := range existing {
		current[label.Name] = label
	}

	wanted := make(map[string]bool, len(specs))
	builder := ghapi.NewBatchBuilder()

	var plan []string

	for _, spec := range specs {
		wanted[spec.Name] = true

		label, exists := current[spec.Name]
		if !exists {
			builder.AddCreateLabel("create:"+spec.Name, ref, &ghapi.LabelCreateRequest{
				Name:        spec.Name,
				Color:       spec.Color,
				Description: spec.Description,
			})
			plan = append(plan, fmt.Sprintf("create %s (#%s)", spec.Name, spec.Color))

			continue
		}

		if label.Color == spec.Color && label.Description == spec.Description {
			continue
		}

		color := spec.Color
		description := spec.Description
		builder.AddUpdateLabel("update:"+spec.Name, ref, spec.Name, &ghapi.LabelUpdateRequest{
			Color:       &color,
			Description: &description,
		})
		plan = append(plan, fmt.Sprintf("update %s (#%s)", spec.Name, spec.Color))
	}

	if prune {
		for _, label := range existing {
			if !wanted[label.Name] {
				builder.AddDeleteLabel("delete:"+label.Name, ref, label.Name)
				plan = append(plan, fmt.Sprintf("delete %s", label.Name))
			}
		}
	}

	return builder.Build(), plan
}

// reportSyncResults prints per operation outcomes and fails when any
// operation failed.
func reportSyncResults(results []ghapi.BatchResult) error {
	failed := 0

	for _, result := range results {
		if result.Success {
			fmt.Printf("ok   %s (%s)\n", result.ID, result.Duration.Round(time.Millisecond))

			continue
		}

		failed++

		fmt.Printf("fail %s: %v\n", result.ID, result.Error)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d operations failed", constants.ErrBatchPartialFailure, failed, len(results))
	}

	fmt.Printf("Synchronized %d label change(s)\n", len(results))

	return nil
}
