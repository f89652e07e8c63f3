package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewMetaCommand creates the meta command.
func NewMetaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "meta",
		Short: "Show API installation metadata",
		Long:  "Display SSH key fingerprints and service address ranges published by the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			meta, err := client.GetMeta(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get API metadata: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(meta)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(meta)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")

				for algorithm, fingerprint := range meta.SSHKeyFingerprints {
					_ = table.Append("SSH "+algorithm, fingerprint)
				}

				if len(meta.API) > 0 {
					_ = table.Append("API CIDRs", strings.Join(meta.API, ", "))
				}

				if len(meta.Git) > 0 {
					_ = table.Append("Git CIDRs", strings.Join(meta.Git, ", "))
				}

				_ = table.Append("Password Auth", yesNo(meta.VerifiablePasswordAuthentication))

				err := table.Render()
				if err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

// NewZenCommand creates the zen command.
func NewZenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "zen",
		Short: "Print a zen of GitHub",
		Long:  "Fetch one of the API's design aphorisms, useful as a connectivity check",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			zen, err := client.GetZen(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get zen: %w", err)
			}

			fmt.Println(zen)

			return nil
		},
	}
}
