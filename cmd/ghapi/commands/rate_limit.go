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

// NewRateLimitCommand creates the rate-limit command.
func NewRateLimitCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rate-limit",
		Aliases: []string{"rate"},
		Short:   "Show rate limit status",
		Long:    "Display the remaining request quota per rate-limit resource",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			limits, err := client.RateLimits().Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get rate limits: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(limits)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(limits)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Resource", "Limit", "Remaining", "Resets")

				appendRateRow(table, "core", limits.Resources.Core)
				appendRateRow(table, "search", limits.Resources.Search)
				appendRateRow(table, "graphql", limits.Resources.GraphQL)

				err := table.Render()
				if err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

func appendRateRow(table *tablewriter.Table, name string, rate ghapi.Rate) {
	_ = table.Append(
		name,
		strconv.Itoa(rate.Limit),
		strconv.Itoa(rate.Remaining),
		formatTime(rate.Reset.Time),
	)
}
