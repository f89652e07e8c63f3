package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/ghapi-client/cmd/ghapi/commands"
	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ghapi",
	Short: "GitHub REST API CLI",
	Long: `A command-line interface for the GitHub REST API.

This CLI provides access to repositories, issues, labels, gists, branches,
teams, secrets and other GitHub resources, against github.com or a GitHub
Enterprise Server endpoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.ghapi/config.yml)")
	rootCmd.PersistentFlags().StringP("api", "a", "", "API endpoint URL")
	rootCmd.PersistentFlags().StringP("token", "t", "", "access token")
	rootCmd.PersistentFlags().StringP("repo", "R", "", "repository as owner/name, URL or numeric id")
	rootCmd.PersistentFlags().String("output", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Bool("skip-tls-verify", false, "skip TLS certificate validation")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("api", rootCmd.PersistentFlags().Lookup("api"))
	viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	viper.BindPFlag("repo", rootCmd.PersistentFlags().Lookup("repo"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("skip_tls_verify", rootCmd.PersistentFlags().Lookup("skip-tls-verify"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewAuthCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewWhoamiCommand())
	rootCmd.AddCommand(commands.NewRateLimitCommand())
	rootCmd.AddCommand(commands.NewMetaCommand())
	rootCmd.AddCommand(commands.NewZenCommand())
	rootCmd.AddCommand(commands.NewReposCommand())
	rootCmd.AddCommand(commands.NewIssuesCommand())
	rootCmd.AddCommand(commands.NewLabelsCommand())
	rootCmd.AddCommand(commands.NewGistsCommand())
	rootCmd.AddCommand(commands.NewBranchesCommand())
	rootCmd.AddCommand(commands.NewTeamsCommand())
	rootCmd.AddCommand(commands.NewProjectsCommand())
	rootCmd.AddCommand(commands.NewSecretsCommand())
	rootCmd.AddCommand(commands.NewRefsCommand())
	rootCmd.AddCommand(commands.NewReactionsCommand())
	rootCmd.AddCommand(commands.NewTrafficCommand())
	rootCmd.AddCommand(commands.NewUsersCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Create config directory if it doesn't exist
		configDir := filepath.Join(home, ".ghapi")
		if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating config directory: %v\n", err)
		}

		// Search config in ~/.ghapi/config.yml
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("GHAPI")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
