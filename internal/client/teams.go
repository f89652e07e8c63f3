package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// TeamsClient implements ghapi.TeamsClient.
type TeamsClient struct {
	httpClient *http.Client
}

// NewTeamsClient creates a new teams client.
func NewTeamsClient(httpClient *http.Client) *TeamsClient {
	return &TeamsClient{
		httpClient: httpClient,
	}
}

// List implements ghapi.TeamsClient.List.
func (c *TeamsClient) List(ctx context.Context, org string, params *ghapi.QueryParams) ([]ghapi.Team, error) {
	path := apiPath("orgs", org, "teams")

	teams, err := ghapi.FetchAllPages[ghapi.Team](ctx, c.httpClient, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}

	return teams, nil
}

// Get implements ghapi.TeamsClient.Get.
func (c *TeamsClient) Get(ctx context.Context, org, slug string) (*ghapi.Team, error) {
	resp, err := c.httpClient.Get(ctx, apiPath("orgs", org, "teams", slug), nil)
	if err != nil {
		return nil, fmt.Errorf("getting team: %w", err)
	}

	var team ghapi.Team

	err = json.Unmarshal(resp.Body, &team)
	if err != nil {
		return nil, fmt.Errorf("parsing team response: %w", err)
	}

	return &team, nil
}

// Create implements ghapi.TeamsClient.Create.
func (c *TeamsClient) Create(ctx context.Context, org string, request *ghapi.TeamCreateRequest) (*ghapi.Team, error) {
	path := apiPath("orgs", org, "teams")

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("creating team: %w", err)
	}

	var team ghapi.Team

	err = json.Unmarshal(resp.Body, &team)
	if err != nil {
		return nil, fmt.Errorf("parsing team response: %w", err)
	}

	return &team, nil
}

// Update implements ghapi.TeamsClient.Update.
func (c *TeamsClient) Update(ctx context.Context, org, slug string, request *ghapi.TeamUpdateRequest) (*ghapi.Team, error) {
	resp, err := c.httpClient.Patch(ctx, apiPath("orgs", org, "teams", slug), request)
	if err != nil {
		return nil, fmt.Errorf("updating team: %w", err)
	}

	var team ghapi.Team

	err = json.Unmarshal(resp.Body, &team)
	if err != nil {
		return nil, fmt.Errorf("parsing team response: %w", err)
	}

	return &team, nil
}

// Delete implements ghapi.TeamsClient.Delete.
func (c *TeamsClient) Delete(ctx context.Context, org, slug string) error {
	_, err := c.httpClient.Delete(ctx, apiPath("orgs", org, "teams", slug))
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}

	return nil
}

// ListMembers implements ghapi.TeamsClient.ListMembers.
func (c *TeamsClient) ListMembers(ctx context.Context, org, slug string, params *ghapi.QueryParams) ([]ghapi.User, error) {
	path := apiPath("orgs", org, "teams", slug, "members")

	members, err := ghapi.FetchAllPages[ghapi.User](ctx, c.httpClient, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}

	return members, nil
}
