package commands

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewReposCommand creates the repos command group.
func NewReposCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repos",
		Aliases: []string{"repo"},
		Short:   "Manage repositories",
		Long:    "Inspect repositories and work with their contents",
	}

	cmd.AddCommand(newReposGetCommand())
	cmd.AddCommand(newReposListCommand())
	cmd.AddCommand(newReposContentsCommand())
	cmd.AddCommand(newReposPutFileCommand())
	cmd.AddCommand(newReposDeleteFileCommand())

	return cmd
}

func newReposGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Get repository details",
		Long:  "Display detailed information about the selected repository",
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

			repo, err := client.Repositories().Get(ctx, ref)
			if err != nil {
				return fmt.Errorf("failed to get repository: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(repo)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(repo)
			default:
				fmt.Printf("Repository: %s\n", repo.FullName)
				fmt.Printf("  ID:             %d\n", repo.ID)
				fmt.Printf("  Private:        %t\n", repo.Private)
				fmt.Printf("  Default Branch: %s\n", repo.DefaultBranch)

				if repo.Language != "" {
					fmt.Printf("  Language:       %s\n", repo.Language)
				}

				if repo.Description != "" {
					fmt.Printf("  Description:    %s\n", repo.Description)
				}

				fmt.Printf("  Archived:       %t\n", repo.Archived)
				fmt.Printf("  URL:            %s\n", repo.HTMLURL)
			}

			return nil
		},
	}
}

func newReposListCommand() *cobra.Command {
	var (
		perPage  int
		repoType string
		sort     string
	)

	cmd := &cobra.Command{
		Use:   "list USERNAME",
		Short: "List repositories for a user",
		Long:  "List the public repositories that belong to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			params := listParams(perPage)

			if repoType != "" {
				params.WithFilter("type", repoType)
			}

			if sort != "" {
				params.WithSort(sort)
			}

			repos, err := client.Repositories().ListForUser(ctx, username, params)
			if err != nil {
				return fmt.Errorf("failed to list repositories: %w", err)
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(repos)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(repos)
			default:
				if len(repos) == 0 {
					fmt.Println("No repositories found")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Name", "Private", "Language", "Description", "Pushed")

				for _, repo := range repos {
					pushed := constants.NotAvailable
					if repo.PushedAt != nil {
						pushed = formatTime(*repo.PushedAt)
					}

					_ = table.Append(
						repo.FullName,
						yesNo(repo.Private),
						repo.Language,
						truncate(repo.Description, constants.TitleDisplayLength),
						pushed,
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
	cmd.Flags().StringVar(&repoType, "type", "", "repository type filter (all, owner, member)")
	cmd.Flags().StringVar(&sort, "sort", "", "sort column (created, updated, pushed, full_name)")

	return cmd
}

func newReposContentsCommand() *cobra.Command {
	var (
		gitRef string
		decode bool
	)

	cmd := &cobra.Command{
		Use:   "contents PATH",
		Short: "Get file contents",
		Long:  "Fetch a file from the repository through the contents API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			client, err := createClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			ref, err := resolveRepository(ctx, client)
			if err != nil {
				return err
			}

			content, err := client.Repositories().GetContents(ctx, ref, path, gitRef)
			if err != nil {
				return fmt.Errorf("failed to get contents: %w", err)
			}

			if decode {
				data, err := decodeContent(content)
				if err != nil {
					return err
				}

				_, err = os.Stdout.Write(data)

				return err
			}

			output := viper.GetString("output")
			switch output {
			case constants.FormatJSON:
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(content)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(content)
			default:
				fmt.Printf("Path: %s\n", content.Path)
				fmt.Printf("  Type:     %s\n", content.Type)
				fmt.Printf("  Size:     %d\n", content.Size)
				fmt.Printf("  SHA:      %s\n", content.SHA)
				fmt.Printf("  Encoding: %s\n", content.Encoding)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&gitRef, "ref", "", "branch, tag or commit to read from")
	cmd.Flags().BoolVar(&decode, "decode", false, "print the decoded file body instead of metadata")

	return cmd
}

// decodeContent unwraps the base64 body of a contents response. The API
// wraps base64 at 60 columns, so newlines are stripped first.
func decodeContent(content *ghapi.RepositoryContent) ([]byte, error) {
	raw := strings.ReplaceAll(content.Content, "\n", "")

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	return data, nil
}

func newReposPutFileCommand() *cobra.Command {
	var (
		message string
		branch  string
		sha     string
	)

	cmd := &cobra.Command{
		Use:   "put-file PATH LOCAL_FILE",
		Short: "Create or update a file",
		Long:  "Commit a local file to the repository through the contents API",
		Args:  cobra.ExactArgs(constants.KeyValueSplitParts),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			localFile := args[1]

			err := requireToken()
			if err != nil {
				return err
			}

			data, err := readLocalFile(localFile)
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

			// Updating an existing file needs its blob SHA. Look it up
			// when the caller did not pass one; a missing file means this
			// is a create.
			if sha == "" {
				existing, err := client.Repositories().GetContents(ctx, ref, path, branch)
				if err == nil {
					sha = existing.SHA
				} else if !ghapi.IsNotFound(err) {
					return fmt.Errorf("failed to check for existing file: %w", err)
				}
			}

			request := &ghapi.FileCommitRequest{
				Message: message,
				Content: base64.StdEncoding.EncodeToString(data),
				SHA:     sha,
				Branch:  branch,
			}

			commit, err := client.Repositories().CreateOrUpdateFile(ctx, ref, path, request)
			if err != nil {
				return fmt.Errorf("failed to commit file: %w", err)
			}

			fmt.Printf("Committed %s as %s\n", path, commit.Commit.SHA)

			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message (required)")
	cmd.Flags().StringVar(&branch, "branch", "", "target branch, defaults to the default branch")
	cmd.Flags().StringVar(&sha, "sha", "", "blob SHA being replaced, looked up automatically when omitted")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

// readLocalFile loads a file after rejecting traversal-style paths.
func readLocalFile(path string) ([]byte, error) {
	if strings.Contains(path, "..") {
		return nil, fmt.Errorf("%w: %s", constants.ErrDirectoryTraversalDetected, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", constants.ErrNotRegularFile, path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is an explicit CLI argument
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return data, nil
}

func newReposDeleteFileCommand() *cobra.Command {
	var (
		message string
		branch  string
		sha     string
	)

	cmd := &cobra.Command{
		Use:   "delete-file PATH",
		Short: "Delete a file",
		Long:  "Remove a file from the repository through the contents API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

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

			if sha == "" {
				existing, err := client.Repositories().GetContents(ctx, ref, path, branch)
				if err != nil {
					return fmt.Errorf("failed to look up file: %w", err)
				}

				sha = existing.SHA
			}

			request := &ghapi.FileCommitRequest{
				Message: message,
				SHA:     sha,
				Branch:  branch,
			}

			commit, err := client.Repositories().DeleteFile(ctx, ref, path, request)
			if err != nil {
				return fmt.Errorf("failed to delete file: %w", err)
			}

			fmt.Printf("Deleted %s in %s\n", path, commit.Commit.SHA)

			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message (required)")
	cmd.Flags().StringVar(&branch, "branch", "", "target branch, defaults to the default branch")
	cmd.Flags().StringVar(&sha, "sha", "", "blob SHA being removed, looked up automatically when omitted")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}
