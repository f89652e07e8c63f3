package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// ReferencesClient implements ghapi.ReferencesClient.
type ReferencesClient struct {
	httpClient *http.Client
}

// NewReferencesClient creates a new git references client.
func NewReferencesClient(httpClient *http.Client) *ReferencesClient {
	return &ReferencesClient{
		httpClient: httpClient,
	}
}

// Get implements ghapi.ReferencesClient.Get. The ref is the short form
// without the "refs/" prefix, e.g. "heads/main" or "tags/v1.0.0".
func (c *ReferencesClient) Get(ctx context.Context, repo ghapi.RepositoryRef, ref string) (*ghapi.Reference, error) {
	path := repoPath(repo) + "/git/ref/" + escapeRef(ref)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting reference: %w", err)
	}

	var reference ghapi.Reference

	err = json.Unmarshal(resp.Body, &reference)
	if err != nil {
		return nil, fmt.Errorf("parsing reference response: %w", err)
	}

	return &reference, nil
}

// ListMatching implements ghapi.ReferencesClient.ListMatching. The prefix
// selects a namespace slice, e.g. "heads/release" matches every branch
// under release/.
func (c *ReferencesClient) ListMatching(ctx context.Context, repo ghapi.RepositoryRef, prefix string, params *ghapi.QueryParams) ([]ghapi.Reference, error) {
	path := repoPath(repo) + "/git/matching-refs/" + escapeRef(prefix)

	references, err := ghapi.FetchAllPages[ghapi.Reference](ctx, c.httpClient, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing references: %w", err)
	}

	return references, nil
}

// Create implements ghapi.ReferencesClient.Create.
func (c *ReferencesClient) Create(ctx context.Context, repo ghapi.RepositoryRef, request *ghapi.ReferenceCreateRequest) (*ghapi.Reference, error) {
	path := repoPath(repo) + "/git/refs"

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("creating reference: %w", err)
	}

	var reference ghapi.Reference

	err = json.Unmarshal(resp.Body, &reference)
	if err != nil {
		return nil, fmt.Errorf("parsing reference response: %w", err)
	}

	return &reference, nil
}

// Update implements ghapi.ReferencesClient.Update.
func (c *ReferencesClient) Update(ctx context.Context, repo ghapi.RepositoryRef, ref string, request *ghapi.ReferenceUpdateRequest) (*ghapi.Reference, error) {
	path := repoPath(repo) + "/git/refs/" + escapeRef(ref)

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating reference: %w", err)
	}

	var reference ghapi.Reference

	err = json.Unmarshal(resp.Body, &reference)
	if err != nil {
		return nil, fmt.Errorf("parsing reference response: %w", err)
	}

	return &reference, nil
}

// Delete implements ghapi.ReferencesClient.Delete.
func (c *ReferencesClient) Delete(ctx context.Context, repo ghapi.RepositoryRef, ref string) error {
	path := repoPath(repo) + "/git/refs/" + escapeRef(ref)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("deleting reference: %w", err)
	}

	return nil
}
