package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewAuthCommand creates the auth command group.
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long:  "Log in with a personal access token, inspect the session, or log out",
	}

	cmd.AddCommand(newAuthLoginCommand())
	cmd.AddCommand(newAuthLogoutCommand())
	cmd.AddCommand(newAuthStatusCommand())

	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var (
		apiEndpoint string
		token       string
		withToken   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with GitHub",
		Long:  "Validate a personal access token against the API and store it for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
			}

			if apiEndpoint == "" {
				apiEndpoint = constants.DefaultAPIEndpoint
			}

			apiEndpoint = normalizeEndpoint(apiEndpoint)

			var err error

			token, err = collectToken(token, withToken)
			if err != nil {
				return err
			}

			if token == "" {
				return ghapi.ErrTokenRequired
			}

			client, err := ghclient.New(&ghapi.Config{
				APIEndpoint:   apiEndpoint,
				Token:         token,
				SkipTLSVerify: viper.GetBool("skip_tls_verify"),
			})
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			ctx := context.Background()

			user, err := client.Users().GetAuthenticated(ctx)
			if err != nil {
				return fmt.Errorf("token validation failed: %w", err)
			}

			config := loadConfig()
			config.API = apiEndpoint
			config.Token = token
			config.Username = user.Login

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Logged in to %s as %s\n", apiEndpoint, user.Login)

			return nil
		},
	}

	cmd.Flags().StringVarP(&apiEndpoint, "api", "a", "", "API endpoint URL, defaults to api.github.com")
	cmd.Flags().StringVarP(&token, "token", "t", "", "personal access token")
	cmd.Flags().Bool("skip-tls-verify", false, "skip TLS certificate validation")
	cmd.Flags().BoolVar(&withToken, "with-token", false, "read the token from standard input")

	return cmd
}

// collectToken resolves the token from the flag, stdin, or an interactive
// prompt, in that order.
func collectToken(token string, withToken bool) (string, error) {
	if token != "" {
		return token, nil
	}

	if withToken {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read token from stdin: %w", err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	fmt.Print("Token: ")

	byteToken, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	fmt.Println()

	return strings.TrimSpace(string(byteToken)), nil
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out",
		Long:  "Remove the stored token from the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = ""
			config.TokenExpiresAt = nil
			config.Username = ""

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Println("Successfully logged out")

			return nil
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long:  "Report whether a token is configured and which account it belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.Token == "" {
				fmt.Println("Not logged in")

				return nil
			}

			client, err := createClient()
			if err != nil {
				return err
			}

			user, err := client.Users().GetAuthenticated(context.Background())
			if err != nil {
				return fmt.Errorf("stored token is not usable: %w", err)
			}

			endpoint := config.API
			if endpoint == "" {
				endpoint = constants.DefaultAPIEndpoint
			}

			fmt.Printf("Logged in to %s as %s\n", endpoint, user.Login)

			return nil
		},
	}
}
