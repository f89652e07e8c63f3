package client

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// RateLimitsClient implements ghapi.RateLimitsClient.
type RateLimitsClient struct {
	httpClient *internalhttp.Client
}

// NewRateLimitsClient creates a new rate limit status client.
func NewRateLimitsClient(httpClient *internalhttp.Client) *RateLimitsClient {
	return &RateLimitsClient{
		httpClient: httpClient,
	}
}

// Get implements ghapi.RateLimitsClient.Get. Calling it does not count
// against the rate limit itself.
func (c *RateLimitsClient) Get(ctx context.Context) (*ghapi.RateLimits, error) {
	resp, err := c.httpClient.Get(ctx, "/rate_limit", nil)
	if err != nil {
		return nil, fmt.Errorf("getting rate limits: %w", err)
	}

	var limits ghapi.RateLimits

	err = json.Unmarshal(resp.Body, &limits)
	if err != nil {
		return nil, fmt.Errorf("parsing rate limit response: %w", err)
	}

	return &limits, nil
}
