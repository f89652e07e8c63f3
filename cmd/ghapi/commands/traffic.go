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

// NewTrafficCommand creates the traffic command group.
func NewTrafficCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traffic",
		Short: "Show repository traffic",
		Long:  "Display the two week traffic reports of a repository. Requires push access.",
	}

	cmd.AddCommand(newTrafficViewsCommand())
	cmd.AddCommand(newTrafficClonesCommand())
	cmd.AddCommand(newTrafficReferrersCommand())
	cmd.AddCommand(newTrafficPathsCommand())

	return cmd
}

// renderTrafficSamples prints bucketed traffic data under a totals line.
func renderTrafficSamples(kind string, count, uniques int, samples []ghapi.TrafficData) error {
	fmt.Printf("%s: %d total, %d unique\n", kind, count, uniques)

	if len(samples) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Date", "Count", "Uniques")

	for _, sample := range samples {
		_ = table.Append(
			sample.Timestamp.Format("2006-01-02"),
			strconv.Itoa(sample.Count),
			strconv.Itoa(sample.Uniques),
		)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func newTrafficViewsCommand() *cobra.Command {
	var per string

	cmd := &cobra.Command{
		Use:   "views",
		Short: "Show view counts",
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

			views, err := client.Traffic().Views(ctx, repo, per)
			if err != nil {
				return fmt.Errorf("failed to get views: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(views)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(views)
			default:
				return renderTrafficSamples("Views", views.Count, views.Uniques, views.Views)
			}
		},
	}

	cmd.Flags().StringVar(&per, "per", "", "bucket size (day, week)")

	return cmd
}

func newTrafficClonesCommand() *cobra.Command {
	var per string

	cmd := &cobra.Command{
		Use:   "clones",
		Short: "Show clone counts",
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

			clones, err := client.Traffic().Clones(ctx, repo, per)
			if err != nil {
				return fmt.Errorf("failed to get clones: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(clones)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(clones)
			default:
				return renderTrafficSamples("Clones", clones.Count, clones.Uniques, clones.Clones)
			}
		},
	}

	cmd.Flags().StringVar(&per, "per", "", "bucket size (day, week)")

	return cmd
}

func newTrafficReferrersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "referrers",
		Short: "Show top referrers",
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

			referrers, err := client.Traffic().TopReferrers(ctx, repo)
			if err != nil {
				return fmt.Errorf("failed to get referrers: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(referrers)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(referrers)
			default:
				if len(referrers) == 0 {
					fmt.Println("No referrers found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Referrer", "Count", "Uniques")

				for _, referrer := range referrers {
					_ = table.Append(
						referrer.Referrer,
						strconv.Itoa(referrer.Count),
						strconv.Itoa(referrer.Uniques),
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
}

func newTrafficPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show top content paths",
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

			paths, err := client.Traffic().TopPaths(ctx, repo)
			if err != nil {
				return fmt.Errorf("failed to get paths: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(paths)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(paths)
			default:
				if len(paths) == 0 {
					fmt.Println("No paths found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Path", "Title", "Count", "Uniques")

				for _, path := range paths {
					_ = table.Append(
						path.Path,
						truncate(path.Title, constants.TitleDisplayLength),
						strconv.Itoa(path.Count),
						strconv.Itoa(path.Uniques),
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
}
