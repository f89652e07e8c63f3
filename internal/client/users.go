package client

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// UsersClient implements ghapi.UsersClient.
type UsersClient struct {
	httpClient *internalhttp.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *internalhttp.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
	}
}

// GetAuthenticated implements ghapi.UsersClient.GetAuthenticated.
func (c *UsersClient) GetAuthenticated(ctx context.Context) (*ghapi.User, error) {
	resp, err := c.httpClient.Get(ctx, "/user", nil)
	if err != nil {
		return nil, fmt.Errorf("getting authenticated user: %w", err)
	}

	var user ghapi.User

	err = json.Unmarshal(resp.Body, &user)
	if err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}

// Get implements ghapi.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, username string) (*ghapi.User, error) {
	resp, err := c.httpClient.Get(ctx, apiPath("users", username), nil)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	var user ghapi.User

	err = json.Unmarshal(resp.Body, &user)
	if err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}

	return &user, nil
}
