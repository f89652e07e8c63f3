package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// BranchesClient implements ghapi.BranchesClient.
type BranchesClient struct {
	httpClient *http.Client
}

// NewBranchesClient creates a new branches client.
func NewBranchesClient(httpClient *http.Client) *BranchesClient {
	return &BranchesClient{
		httpClient: httpClient,
	}
}

// List implements ghapi.BranchesClient.List.
func (c *BranchesClient) List(ctx context.Context, repo ghapi.RepositoryRef, params *ghapi.QueryParams) ([]ghapi.Branch, error) {
	path := repoPath(repo) + "/branches"

	branches, err := ghapi.FetchAllPages[ghapi.Branch](ctx, c.httpClient, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	return branches, nil
}

// Get implements ghapi.BranchesClient.Get.
func (c *BranchesClient) Get(ctx context.Context, repo ghapi.RepositoryRef, branch string) (*ghapi.Branch, error) {
	resp, err := c.httpClient.Get(ctx, branchPath(repo, branch), nil)
	if err != nil {
		return nil, fmt.Errorf("getting branch: %w", err)
	}

	var result ghapi.Branch

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing branch response: %w", err)
	}

	return &result, nil
}

// GetProtection implements ghapi.BranchesClient.GetProtection.
func (c *BranchesClient) GetProtection(ctx context.Context, repo ghapi.RepositoryRef, branch string) (*ghapi.BranchProtection, error) {
	path := branchPath(repo, branch) + "/protection"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting branch protection: %w", err)
	}

	var protection ghapi.BranchProtection

	err = json.Unmarshal(resp.Body, &protection)
	if err != nil {
		return nil, fmt.Errorf("parsing protection response: %w", err)
	}

	return &protection, nil
}

// UpdateProtection implements ghapi.BranchesClient.UpdateProtection.
func (c *BranchesClient) UpdateProtection(ctx context.Context, repo ghapi.RepositoryRef, branch string, request *ghapi.BranchProtectionRequest) (*ghapi.BranchProtection, error) {
	path := branchPath(repo, branch) + "/protection"

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating branch protection: %w", err)
	}

	var protection ghapi.BranchProtection

	err = json.Unmarshal(resp.Body, &protection)
	if err != nil {
		return nil, fmt.Errorf("parsing protection response: %w", err)
	}

	return &protection, nil
}

// RemoveProtection implements ghapi.BranchesClient.RemoveProtection.
func (c *BranchesClient) RemoveProtection(ctx context.Context, repo ghapi.RepositoryRef, branch string) error {
	path := branchPath(repo, branch) + "/protection"

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("removing branch protection: %w", err)
	}

	return nil
}

// branchPath addresses one branch. Branch names may contain slashes
// ("release/1.2"), which stay structural.
func branchPath(repo ghapi.RepositoryRef, branch string) string {
	return repoPath(repo) + "/branches/" + escapeRef(branch)
}
