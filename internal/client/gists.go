package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// GistsClient implements ghapi.GistsClient.
type GistsClient struct {
	httpClient *internalhttp.Client
}

// NewGistsClient creates a new gists client.
func NewGistsClient(httpClient *internalhttp.Client) *GistsClient {
	return &GistsClient{
		httpClient: httpClient,
	}
}

// List implements ghapi.GistsClient.List.
func (c *GistsClient) List(ctx context.Context, params *ghapi.QueryParams) ([]ghapi.Gist, error) {
	gists, err := ghapi.FetchAllPages[ghapi.Gist](ctx, c.httpClient, "/gists", params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing gists: %w", err)
	}

	return gists, nil
}

// ListForUser implements ghapi.GistsClient.ListForUser.
func (c *GistsClient) ListForUser(ctx context.Context, username string, params *ghapi.QueryParams) ([]ghapi.Gist, error) {
	path := apiPath("users", username, "gists")

	gists, err := ghapi.FetchAllPages[ghapi.Gist](ctx, c.httpClient, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing user gists: %w", err)
	}

	return gists, nil
}

// Get implements ghapi.GistsClient.Get.
func (c *GistsClient) Get(ctx context.Context, gistID string) (*ghapi.Gist, error) {
	resp, err := c.httpClient.Get(ctx, apiPath("gists", gistID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting gist: %w", err)
	}

	var gist ghapi.Gist

	err = json.Unmarshal(resp.Body, &gist)
	if err != nil {
		return nil, fmt.Errorf("parsing gist response: %w", err)
	}

	return &gist, nil
}

// Create implements ghapi.GistsClient.Create.
func (c *GistsClient) Create(ctx context.Context, request *ghapi.GistCreateRequest) (*ghapi.Gist, error) {
	resp, err := c.httpClient.Post(ctx, "/gists", request)
	if err != nil {
		return nil, fmt.Errorf("creating gist: %w", err)
	}

	var gist ghapi.Gist

	err = json.Unmarshal(resp.Body, &gist)
	if err != nil {
		return nil, fmt.Errorf("parsing gist response: %w", err)
	}

	return &gist, nil
}

// Update implements ghapi.GistsClient.Update.
func (c *GistsClient) Update(ctx context.Context, gistID string, request *ghapi.GistUpdateRequest) (*ghapi.Gist, error) {
	resp, err := c.httpClient.Patch(ctx, apiPath("gists", gistID), request)
	if err != nil {
		return nil, fmt.Errorf("updating gist: %w", err)
	}

	var gist ghapi.Gist

	err = json.Unmarshal(resp.Body, &gist)
	if err != nil {
		return nil, fmt.Errorf("parsing gist response: %w", err)
	}

	return &gist, nil
}

// Delete implements ghapi.GistsClient.Delete.
func (c *GistsClient) Delete(ctx context.Context, gistID string) error {
	_, err := c.httpClient.Delete(ctx, apiPath("gists", gistID))
	if err != nil {
		return fmt.Errorf("deleting gist: %w", err)
	}

	return nil
}

// Star implements ghapi.GistsClient.Star.
func (c *GistsClient) Star(ctx context.Context, gistID string) error {
	_, err := c.httpClient.Put(ctx, apiPath("gists", gistID, "star"), nil)
	if err != nil {
		return fmt.Errorf("starring gist: %w", err)
	}

	return nil
}

// Unstar implements ghapi.GistsClient.Unstar.
func (c *GistsClient) Unstar(ctx context.Context, gistID string) error {
	_, err := c.httpClient.Delete(ctx, apiPath("gists", gistID, "star"))
	if err != nil {
		return fmt.Errorf("unstarring gist: %w", err)
	}

	return nil
}

// IsStarred implements ghapi.GistsClient.IsStarred. The probe opts into
// the 404 so an unstarred gist reads as false; transport and auth
// failures still surface as errors rather than a false negative.
func (c *GistsClient) IsStarred(ctx context.Context, gistID string) (bool, error) {
	resp, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method:           "GET",
		Path:             apiPath("gists", gistID, "star"),
		ExtendedStatuses: []int{http.StatusNotFound},
	})
	if err != nil {
		return false, fmt.Errorf("checking gist star: %w", err)
	}

	return resp.StatusCode == http.StatusNoContent, nil
}

// Fork implements ghapi.GistsClient.Fork.
func (c *GistsClient) Fork(ctx context.Context, gistID string) (*ghapi.Gist, error) {
	resp, err := c.httpClient.Post(ctx, apiPath("gists", gistID, "forks"), nil)
	if err != nil {
		return nil, fmt.Errorf("forking gist: %w", err)
	}

	var gist ghapi.Gist

	err = json.Unmarshal(resp.Body, &gist)
	if err != nil {
		return nil, fmt.Errorf("parsing gist response: %w", err)
	}

	return &gist, nil
}
