package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/ghapi-client/internal/auth"
	"github.com/fivetwenty-io/ghapi-client/internal/client"
	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghclient"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// createClient builds a ghapi.Client from the effective CLI configuration.
// A missing token is not an error; unauthenticated clients still reach the
// public read endpoints at the anonymous rate limit.
func createClient() (ghapi.Client, error) {
	config := loadConfig()

	ghConfig := &ghapi.Config{
		APIEndpoint:   config.API,
		Token:         config.Token,
		SkipTLSVerify: config.SkipTLSVerify,
	}

	// Expiring tokens go through the config-backed manager so a refreshed
	// token lands back in the config file.
	if config.Token != "" && config.TokenExpiresAt != nil {
		return createClientWithTokenManager(ghConfig, config)
	}

	apiClient, err := ghclient.New(ghConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return apiClient, nil
}

// createClientWithTokenManager creates a client whose token is served and
// persisted by a ConfigTokenManager.
func createClientWithTokenManager(ghConfig *ghapi.Config, config *Config) (ghapi.Client, error) {
	endpoint := ghConfig.APIEndpoint
	if endpoint == "" {
		endpoint = constants.DefaultAPIEndpoint
	}

	ghConfig.APIEndpoint = normalizeEndpoint(endpoint)

	tokenManager := auth.NewConfigTokenManager(NewConfigPersister(), ghConfig.APIEndpoint, config.Token, *config.TokenExpiresAt)

	apiClient, err := client.NewWithTokenManager(ghConfig, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create client with token manager: %w", err)
	}

	return apiClient, nil
}

// requireToken returns an error when no token is configured. Commands that
// only write use it to fail fast with guidance instead of a 401.
func requireToken() error {
	if loadConfig().Token == "" {
		return constants.ErrNoTokenConfigured
	}

	return nil
}

// normalizeEndpoint trims a trailing slash and defaults the scheme to https.
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(endpoint, "/")
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// resolveRepository turns the --repo flag, or the configured default
// repository, into a RepositoryRef. The value may be owner/name, a
// repository URL, or a numeric repository id; ids cost one API call.
func resolveRepository(ctx context.Context, apiClient ghapi.Client) (ghapi.RepositoryRef, error) {
	value := viper.GetString("repo")
	if value == "" {
		value = loadConfig().DefaultRepository
	}

	if value == "" {
		return ghapi.RepositoryRef{}, constants.ErrNoDefaultRepository
	}

	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		repo, err := apiClient.Repositories().GetByID(ctx, id)
		if err != nil {
			return ghapi.RepositoryRef{}, fmt.Errorf("failed to resolve repository id %d: %w", id, err)
		}

		ref, err := repo.Ref()
		if err != nil {
			return ghapi.RepositoryRef{}, fmt.Errorf("failed to resolve repository id %d: %w", id, err)
		}

		return ref, nil
	}

	ref, err := ghapi.ParseRepositoryRef(value)
	if err != nil {
		return ghapi.RepositoryRef{}, err
	}

	return ref, nil
}

// listParams builds query parameters from the shared pagination flags.
func listParams(perPage int) *ghapi.QueryParams {
	params := ghapi.NewQueryParams()
	if perPage > 0 {
		params.WithPerPage(perPage)
	}

	return params
}

// yesNo renders a bool the way the tables expect.
func yesNo(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}

// formatTime renders a timestamp for table output, N/A when zero.
func formatTime(value time.Time) string {
	if value.IsZero() {
		return constants.NotAvailable
	}

	return value.Format(time.RFC3339)
}

// truncate shortens a string for table display.
func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}

	return value[:max-3] + "..."
}

// titleCase capitalizes a state or role for table display.
func titleCase(value string) string {
	return cases.Title(language.English).String(value)
}

// loginName renders a possibly missing user.
func loginName(user *ghapi.User) string {
	if user == nil {
		return constants.NotAvailable
	}

	return user.Login
}

// labelNames joins label names for single-line display.
func labelNames(labels []ghapi.Label) string {
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, label.Name)
	}

	return strings.Join(names, ", ")
}
