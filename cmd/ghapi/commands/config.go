package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration stored in ~/.ghapi/config.yml.
type Config struct {
	API               string     `json:"api,omitempty"                yaml:"api,omitempty"`
	Token             string     `json:"token,omitempty"              yaml:"token,omitempty"`
	TokenExpiresAt    *time.Time `json:"token_expires_at,omitempty"   yaml:"token_expires_at,omitempty"`
	Username          string     `json:"username,omitempty"           yaml:"username,omitempty"`
	DefaultRepository string     `json:"default_repository,omitempty" yaml:"default_repository,omitempty"`
	Output            string     `json:"output,omitempty"             yaml:"output,omitempty"`
	NoColor           bool       `json:"no_color"                     yaml:"no_color"`
	SkipTLSVerify     bool       `json:"skip_tls_verify"              yaml:"skip_tls_verify"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage ghapi CLI configuration such as the API endpoint, token and default repository",
	}

	cmd.AddCommand(newConfigListCommand())
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"show"},
		Short:   "Show current configuration",
		Long:    "Display the full CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(config)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(config)
			default:
				return displayConfigTable(config)
			}
		},
	}
}

func displayConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	endpoint := config.API
	if endpoint == "" {
		endpoint = constants.DefaultAPIEndpoint
	}

	_ = table.Append("API", endpoint)

	if config.Token != "" {
		_ = table.Append("Token", "[REDACTED]")
	}

	if config.TokenExpiresAt != nil {
		_ = table.Append("Token Expires", config.TokenExpiresAt.Format(time.RFC3339))
	}

	if config.Username != "" {
		_ = table.Append("Username", config.Username)
	}

	if config.DefaultRepository != "" {
		_ = table.Append("Default Repository", config.DefaultRepository)
	}

	if config.Output != "" {
		_ = table.Append("Output", config.Output)
	}

	if config.SkipTLSVerify {
		_ = table.Append("Skip TLS Verify", strconv.FormatBool(config.SkipTLSVerify))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render config table: %w", err)
	}

	return nil
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Get a configuration value",
		Long:  "Print a single configuration value, suitable for scripting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			value, err := configValue(config, args[0])
			if err != nil {
				return err
			}

			fmt.Println(value)

			return nil
		},
	}
}

func configValue(config *Config, key string) (string, error) {
	switch key {
	case "api":
		return config.API, nil
	case "token":
		return config.Token, nil
	case "username":
		return config.Username, nil
	case "default_repository":
		return config.DefaultRepository, nil
	case "output":
		return config.Output, nil
	case "no_color":
		return strconv.FormatBool(config.NoColor), nil
	case "skip_tls_verify":
		return strconv.FormatBool(config.SkipTLSVerify), nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value and persist it to the config file",
		Args:  cobra.ExactArgs(constants.KeyValueSplitParts),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			config := loadConfig()

			err := setConfigValue(config, key, value)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("Set %s\n", key)

			return nil
		},
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "api":
		config.API = normalizeEndpoint(value)
	case "token":
		config.Token = value
	case "username":
		config.Username = value
	case "default_repository":
		config.DefaultRepository = value
	case "output":
		if value != constants.FormatTable && value != constants.FormatJSON && value != constants.FormatYAML {
			return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, value)
		}

		config.Output = value
	case "no_color":
		config.NoColor = value == "true" || value == "1"
	case "skip_tls_verify":
		config.SkipTLSVerify = value == "true" || value == "1"
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value and persist the change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			config := loadConfig()

			err := unsetConfigValue(config, key)
			if err != nil {
				return err
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Printf("Unset %s\n", key)

			return nil
		},
	}
}

func unsetConfigValue(config *Config, key string) error {
	switch key {
	case "api":
		config.API = ""
	case "token":
		config.Token = ""
		config.TokenExpiresAt = nil
	case "username":
		config.Username = ""
	case "default_repository":
		config.DefaultRepository = ""
	case "output":
		config.Output = ""
	case "no_color":
		config.NoColor = false
	case "skip_tls_verify":
		config.SkipTLSVerify = false
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// loadConfig reads the effective configuration through viper, which layers
// command line flags over GHAPI_* environment variables over the config file.
func loadConfig() *Config {
	config := &Config{
		API:               viper.GetString("api"),
		Token:             viper.GetString("token"),
		Username:          viper.GetString("username"),
		DefaultRepository: viper.GetString("default_repository"),
		Output:            viper.GetString("output"),
		NoColor:           viper.GetBool("no_color"),
		SkipTLSVerify:     viper.GetBool("skip_tls_verify"),
	}

	expires := viper.GetTime("token_expires_at")
	if !expires.IsZero() {
		config.TokenExpiresAt = &expires
	}

	return config
}

// saveConfigStruct writes the configuration to the active config file,
// defaulting to ~/.ghapi/config.yml.
func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".ghapi")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
