package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Look up users",
	}

	cmd.AddCommand(newUsersGetCommand())

	return cmd
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USERNAME",
		Short: "Get a user's public profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			user, err := client.Users().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(user)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(user)
			default:
				fmt.Printf("User: %s\n", user.Login)
				fmt.Printf("  ID:   %s\n", strconv.FormatInt(user.ID, 10))
				fmt.Printf("  Type: %s\n", user.Type)

				if user.Name != "" {
					fmt.Printf("  Name: %s\n", user.Name)
				}

				if user.Email != "" {
					fmt.Printf("  Email: %s\n", user.Email)
				}

				fmt.Printf("  URL:  %s\n", user.HTMLURL)
			}

			return nil
		},
	}
}
