package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// NewSecretsCommand creates the secrets command group.
func NewSecretsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "secrets",
		Aliases: []string{"secret"},
		Short:   "Manage Actions secrets",
		Long:    "List and change repository Actions secrets. Values are sealed with the repository public key before upload.",
	}

	cmd.AddCommand(newSecretsListCommand())
	cmd.AddCommand(newSecretsGetCommand())
	cmd.AddCommand(newSecretsSetCommand())
	cmd.AddCommand(newSecretsDeleteCommand())
	cmd.AddCommand(newSecretsPublicKeyCommand())

	return cmd
}

func newSecretsListCommand() *cobra.Command {
	var perPage int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List secrets",
		Long:  "List secret names and timestamps. Secret values are never readable.",
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

			secrets, err := client.Secrets().List(ctx, ref, listParams(perPage))
			if err != nil {
				return fmt.Errorf("failed to list secrets: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(secrets)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(secrets)
			default:
				if len(secrets) == 0 {
					fmt.Println("No secrets found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Name", "Value", "Created", "Updated")

				for _, secret := range secrets {
					_ = table.Append(
						secret.Name,
						constants.MaskedSecret,
						formatTime(secret.CreatedAt),
						formatTime(secret.UpdatedAt),
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

func newSecretsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get secret metadata",
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

			secret, err := client.Secrets().Get(ctx, ref, args[0])
			if err != nil {
				return fmt.Errorf("failed to get secret: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(secret)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(secret)
			default:
				fmt.Printf("Secret: %s\n", secret.Name)
				fmt.Printf("  Value:   %s\n", constants.MaskedSecret)
				fmt.Printf("  Created: %s\n", formatTime(secret.CreatedAt))
				fmt.Printf("  Updated: %s\n", formatTime(secret.UpdatedAt))
			}

			return nil
		},
	}
}

func newSecretsSetCommand() *cobra.Command {
	var (
		value    string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Create or update a secret",
		Long: "Set a secret value. The value is read from --value, --from-file or an interactive " +
			"prompt, sealed with the repository public key and uploaded.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireToken()
			if err != nil {
				return err
			}

			secretValue, err := collectSecretValue(value, fromFile)
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

			err = client.Secrets().CreateOrUpdate(ctx, ref, args[0], secretValue)
			if err != nil {
				return fmt.Errorf("failed to set secret: %w", err)
			}

			fmt.Printf("Set secret %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "secret value, prompts when omitted")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the secret value from a file")

	return cmd
}

// collectSecretValue resolves the secret value from the flag, a file, or an
// interactive prompt, in that order.
func collectSecretValue(value, fromFile string) (string, error) {
	if value != "" {
		return value, nil
	}

	if fromFile != "" {
		data, err := readLocalFile(fromFile)
		if err != nil {
			return "", err
		}

		return strings.TrimRight(string(data), "\n"), nil
	}

	fmt.Print("Value: ")

	raw, err := term.ReadPassword(int(syscall.Stdin))

	fmt.Println()

	if err != nil {
		return "", fmt.Errorf("failed to read secret value: %w", err)
	}

	return string(raw), nil
}

func newSecretsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a secret",
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

			err = client.Secrets().Delete(ctx, ref, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete secret: %w", err)
			}

			fmt.Printf("Deleted secret %s\n", args[0])

			return nil
		},
	}
}

func newSecretsPublicKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "public-key",
		Short: "Show the repository public key",
		Long:  "Display the public key that secret values are sealed with before upload",
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

			key, err := client.Secrets().GetPublicKey(ctx, ref)
			if err != nil {
				return fmt.Errorf("failed to get public key: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(key)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(key)
			default:
				fmt.Printf("Key ID: %s\n", key.KeyID)
				fmt.Printf("Key:    %s\n", key.Key)
			}

			return nil
		},
	}
}
