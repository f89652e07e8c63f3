// Package ghclient provides the main entry point for creating GitHub API clients
package ghclient

import (
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/ghapi-client/internal/client"
	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// New creates a new GitHub API client from the given configuration.
//
// The configuration is copied before use, so changes made to it after New
// returns do not affect the client. An empty APIEndpoint selects the public
// api.github.com endpoint.
func New(config *ghapi.Config) (ghapi.Client, error) {
	if config == nil {
		return nil, ghapi.ErrConfigRequired
	}

	// Copy the config so the caller's value stays untouched.
	cfg := *config

	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = constants.DefaultAPIEndpoint
	}

	// Normalize API endpoint
	apiEndpoint := strings.TrimSuffix(cfg.APIEndpoint, "/")
	if !strings.HasPrefix(apiEndpoint, "http://") && !strings.HasPrefix(apiEndpoint, "https://") {
		apiEndpoint = "https://" + apiEndpoint
	}

	cfg.APIEndpoint = apiEndpoint

	// Only allow insecure TLS in explicit development environments
	if cfg.SkipTLSVerify && !isDevelopmentEnvironment() {
		return nil, fmt.Errorf("%w (set GHAPI_DEV_MODE=true)", ghapi.ErrSkipTLSOnlyInDev)
	}

	// Use the internal client implementation
	apiClient, err := client.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// isDevelopmentEnvironment checks if we're in a development environment.
func isDevelopmentEnvironment() bool {
	devMode := os.Getenv("GHAPI_DEV_MODE")

	return devMode == "true" || devMode == "1"
}

// NewWithEndpoint creates a new unauthenticated client for the given API
// endpoint, typically a GitHub Enterprise Server installation.
func NewWithEndpoint(endpoint string) (ghapi.Client, error) {
	return New(&ghapi.Config{
		APIEndpoint: endpoint,
	})
}

// NewWithToken creates a new client for api.github.com using a personal
// access token or installation token.
func NewWithToken(token string) (ghapi.Client, error) {
	return New(&ghapi.Config{
		Token: token,
	})
}
