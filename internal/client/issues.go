package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// IssuesClient implements ghapi.IssuesClient.
type IssuesClient struct {
	httpClient *http.Client
}

// NewIssuesClient creates a new issues client.
func NewIssuesClient(httpClient *http.Client) *IssuesClient {
	return &IssuesClient{
		httpClient: httpClient,
	}
}

// Get implements ghapi.IssuesClient.Get.
func (c *IssuesClient) Get(ctx context.Context, repo ghapi.RepositoryRef, number int) (*ghapi.Issue, error) {
	resp, err := c.httpClient.Get(ctx, issuePath(repo, number), nil)
	if err != nil {
		return nil, fmt.Errorf("getting issue: %w", err)
	}

	var issue ghapi.Issue

	err = json.Unmarshal(resp.Body, &issue)
	if err != nil {
		return nil, fmt.Errorf("parsing issue response: %w", err)
	}

	return &issue, nil
}

// List implements ghapi.IssuesClient.List.
func (c *IssuesClient) List(ctx context.Context, repo ghapi.RepositoryRef, params *ghapi.QueryParams) ([]ghapi.Issue, error) {
	path := repoPath(repo) + "/issues"

	issues, err := ghapi.FetchAllPages[ghapi.Issue](ctx, c.httpClient, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}

	return issues, nil
}

// Create implements ghapi.IssuesClient.Create.
func (c *IssuesClient) Create(ctx context.Context, repo ghapi.RepositoryRef, request *ghapi.IssueCreateRequest) (*ghapi.Issue, error) {
	path := repoPath(repo) + "/issues"

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("creating issue: %w", err)
	}

	var issue ghapi.Issue

	err = json.Unmarshal(resp.Body, &issue)
	if err != nil {
		return nil, fmt.Errorf("parsing issue response: %w", err)
	}

	return &issue, nil
}

// Update implements ghapi.IssuesClient.Update.
func (c *IssuesClient) Update(ctx context.Context, repo ghapi.RepositoryRef, number int, request *ghapi.IssueUpdateRequest) (*ghapi.Issue, error) {
	resp, err := c.httpClient.Patch(ctx, issuePath(repo, number), request)
	if err != nil {
		return nil, fmt.Errorf("updating issue: %w", err)
	}

	var issue ghapi.Issue

	err = json.Unmarshal(resp.Body, &issue)
	if err != nil {
		return nil, fmt.Errorf("parsing issue response: %w", err)
	}

	return &issue, nil
}

// Lock implements ghapi.IssuesClient.Lock. A nil request locks without a
// reason.
func (c *IssuesClient) Lock(ctx context.Context, repo ghapi.RepositoryRef, number int, request *ghapi.IssueLockRequest) error {
	path := issuePath(repo, number) + "/lock"

	var body interface{}
	if request != nil {
		body = request
	}

	_, err := c.httpClient.Put(ctx, path, body)
	if err != nil {
		return fmt.Errorf("locking issue: %w", err)
	}

	return nil
}

// Unlock implements ghapi.IssuesClient.Unlock.
func (c *IssuesClient) Unlock(ctx context.Context, repo ghapi.RepositoryRef, number int) error {
	path := issuePath(repo, number) + "/lock"

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("unlocking issue: %w", err)
	}

	return nil
}
