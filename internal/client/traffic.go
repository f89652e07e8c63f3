package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// TrafficClient implements ghapi.TrafficClient. Traffic endpoints need
// push access to the repository.
type TrafficClient struct {
	httpClient *http.Client
}

// NewTrafficClient creates a new traffic client.
func NewTrafficClient(httpClient *http.Client) *TrafficClient {
	return &TrafficClient{
		httpClient: httpClient,
	}
}

// Views implements ghapi.TrafficClient.Views. per buckets the report by
// "day" or "week"; empty uses the API default.
func (c *TrafficClient) Views(ctx context.Context, repo ghapi.RepositoryRef, per string) (*ghapi.TrafficViews, error) {
	path := repoPath(repo) + "/traffic/views"

	resp, err := c.httpClient.Get(ctx, path, perQuery(per))
	if err != nil {
		return nil, fmt.Errorf("getting traffic views: %w", err)
	}

	var views ghapi.TrafficViews

	err = json.Unmarshal(resp.Body, &views)
	if err != nil {
		return nil, fmt.Errorf("parsing traffic views response: %w", err)
	}

	return &views, nil
}

// Clones implements ghapi.TrafficClient.Clones.
func (c *TrafficClient) Clones(ctx context.Context, repo ghapi.RepositoryRef, per string) (*ghapi.TrafficClones, error) {
	path := repoPath(repo) + "/traffic/clones"

	resp, err := c.httpClient.Get(ctx, path, perQuery(per))
	if err != nil {
		return nil, fmt.Errorf("getting traffic clones: %w", err)
	}

	var clones ghapi.TrafficClones

	err = json.Unmarshal(resp.Body, &clones)
	if err != nil {
		return nil, fmt.Errorf("parsing traffic clones response: %w", err)
	}

	return &clones, nil
}

// TopReferrers implements ghapi.TrafficClient.TopReferrers.
func (c *TrafficClient) TopReferrers(ctx context.Context, repo ghapi.RepositoryRef) ([]ghapi.TrafficReferrer, error) {
	path := repoPath(repo) + "/traffic/popular/referrers"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting top referrers: %w", err)
	}

	var referrers []ghapi.TrafficReferrer

	err = json.Unmarshal(resp.Body, &referrers)
	if err != nil {
		return nil, fmt.Errorf("parsing referrers response: %w", err)
	}

	return referrers, nil
}

// TopPaths implements ghapi.TrafficClient.TopPaths.
func (c *TrafficClient) TopPaths(ctx context.Context, repo ghapi.RepositoryRef) ([]ghapi.TrafficPath, error) {
	path := repoPath(repo) + "/traffic/popular/paths"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting top paths: %w", err)
	}

	var paths []ghapi.TrafficPath

	err = json.Unmarshal(resp.Body, &paths)
	if err != nil {
		return nil, fmt.Errorf("parsing paths response: %w", err)
	}

	return paths, nil
}

func perQuery(per string) url.Values {
	if per == "" {
		return nil
	}

	return url.Values{"per": []string{per}}
}
