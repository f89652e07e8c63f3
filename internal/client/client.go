package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/ghapi-client/internal/auth"
	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// Static errors for err113 compliance.
var (
	ErrAPIEndpointRequired      = errors.New("API endpoint is required")
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// Client implements the ghapi.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       ghapi.Logger

	// Resource clients
	repositories  ghapi.RepositoriesClient
	branches      ghapi.BranchesClient
	references    ghapi.ReferencesClient
	traffic       ghapi.TrafficClient
	issues        ghapi.IssuesClient
	issueComments ghapi.IssueCommentsClient
	labels        ghapi.LabelsClient
	reactions     ghapi.ReactionsClient
	gists         ghapi.GistsClient
	teams         ghapi.TeamsClient
	projects      ghapi.ProjectsClient
	secrets       ghapi.SecretsClient
	users         ghapi.UsersClient
	rateLimits    ghapi.RateLimitsClient
}

// createTokenManager creates the appropriate token manager for the config.
// GitHub tokens need no grant flows; an absent token means anonymous access.
func createTokenManager(config *ghapi.Config) auth.TokenManager {
	if config.Token != "" {
		return auth.NewStaticTokenManager(config.Token)
	}

	return nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *ghapi.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.RateLimitMaxWait > 0 {
		httpOpts = append(httpOpts, http.WithRateLimitMaxWait(config.RateLimitMaxWait))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.SkipTLSVerify {
		httpOpts = append(httpOpts, http.WithSkipTLSVerify(true))
	}

	return httpOpts
}

// New creates a new GitHub API client from the config snapshot. The config
// is read once here; later mutations of the caller's struct have no effect.
func New(config *ghapi.Config) (*Client, error) {
	if config.APIEndpoint == "" {
		return nil, ErrAPIEndpointRequired
	}

	tokenManager := createTokenManager(config)
	httpOpts := createHTTPClientOptions(config)
	httpClient := http.NewClient(config.APIEndpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.APIEndpoint,
		logger:       config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// NewWithTokenManager creates a client with a custom token manager, used
// for refreshable credentials like GitHub App installation tokens.
func NewWithTokenManager(config *ghapi.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config.APIEndpoint == "" {
		return nil, ErrAPIEndpointRequired
	}

	httpOpts := createHTTPClientOptions(config)
	httpClient := http.NewClient(config.APIEndpoint, tokenManager, httpOpts...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      config.APIEndpoint,
		logger:       config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// FetchPage implements ghapi.PageFetcher, exposing the raw page walk for
// lazy iteration and streaming over list endpoints.
func (c *Client) FetchPage(ctx context.Context, path string, params *ghapi.QueryParams) (*ghapi.Page, error) {
	return c.httpClient.FetchPage(ctx, path, params)
}

// GetMeta implements ghapi.Client.GetMeta.
func (c *Client) GetMeta(ctx context.Context) (*ghapi.APIMeta, error) {
	resp, err := c.httpClient.Get(ctx, "/meta", nil)
	if err != nil {
		return nil, fmt.Errorf("getting meta: %w", err)
	}

	var meta ghapi.APIMeta

	err = json.Unmarshal(resp.Body, &meta)
	if err != nil {
		return nil, fmt.Errorf("parsing meta response: %w", err)
	}

	return &meta, nil
}

// GetZen implements ghapi.Client.GetZen.
func (c *Client) GetZen(ctx context.Context) (string, error) {
	resp, err := c.httpClient.Get(ctx, "/zen", nil)
	if err != nil {
		return "", fmt.Errorf("getting zen: %w", err)
	}

	// The endpoint answers with plain text, not JSON.
	return string(resp.Body), nil
}

// Resource client accessors

// Repositories implements ghapi.Client.Repositories.
func (c *Client) Repositories() ghapi.RepositoriesClient {
	return c.repositories
}

// Branches implements ghapi.Client.Branches.
func (c *Client) Branches() ghapi.BranchesClient {
	return c.branches
}

// References implements ghapi.Client.References.
func (c *Client) References() ghapi.ReferencesClient {
	return c.references
}

// Traffic implements ghapi.Client.Traffic.
func (c *Client) Traffic() ghapi.TrafficClient {
	return c.traffic
}

// Issues implements ghapi.Client.Issues.
func (c *Client) Issues() ghapi.IssuesClient {
	return c.issues
}

// IssueComments implements ghapi.Client.IssueComments.
func (c *Client) IssueComments() ghapi.IssueCommentsClient {
	return c.issueComments
}

// Labels implements ghapi.Client.Labels.
func (c *Client) Labels() ghapi.LabelsClient {
	return c.labels
}

// Reactions implements ghapi.Client.Reactions.
func (c *Client) Reactions() ghapi.ReactionsClient {
	return c.reactions
}

// Gists implements ghapi.Client.Gists.
func (c *Client) Gists() ghapi.GistsClient {
	return c.gists
}

// Teams implements ghapi.Client.Teams.
func (c *Client) Teams() ghapi.TeamsClient {
	return c.teams
}

// Projects implements ghapi.Client.Projects.
func (c *Client) Projects() ghapi.ProjectsClient {
	return c.projects
}

// Secrets implements ghapi.Client.Secrets.
func (c *Client) Secrets() ghapi.SecretsClient {
	return c.secrets
}

// Users implements ghapi.Client.Users.
func (c *Client) Users() ghapi.UsersClient {
	return c.users
}

// RateLimits implements ghapi.Client.RateLimits.
func (c *Client) RateLimits() ghapi.RateLimitsClient {
	return c.rateLimits
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.repositories = NewRepositoriesClient(c.httpClient)
	c.branches = NewBranchesClient(c.httpClient)
	c.references = NewReferencesClient(c.httpClient)
	c.traffic = NewTrafficClient(c.httpClient)
	c.issues = NewIssuesClient(c.httpClient)
	c.issueComments = NewIssueCommentsClient(c.httpClient)
	c.labels = NewLabelsClient(c.httpClient)
	c.reactions = NewReactionsClient(c.httpClient)
	c.gists = NewGistsClient(c.httpClient)
	c.teams = NewTeamsClient(c.httpClient)
	c.projects = NewProjectsClient(c.httpClient)
	c.secrets = NewSecretsClient(c.httpClient)
	c.users = NewUsersClient(c.httpClient)
	c.rateLimits = NewRateLimitsClient(c.httpClient)
}
