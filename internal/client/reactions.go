package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// ReactionsClient implements ghapi.ReactionsClient. Reactions sit behind
// a preview media type, so every request overrides Accept.
type ReactionsClient struct {
	httpClient *internalhttp.Client
}

// NewReactionsClient creates a new reactions client.
func NewReactionsClient(httpClient *internalhttp.Client) *ReactionsClient {
	return &ReactionsClient{
		httpClient: httpClient,
	}
}

// ListForIssue implements ghapi.ReactionsClient.ListForIssue.
func (c *ReactionsClient) ListForIssue(ctx context.Context, repo ghapi.RepositoryRef, number int, params *ghapi.QueryParams) ([]ghapi.Reaction, error) {
	path := issuePath(repo, number) + "/reactions"
	fetcher := &acceptFetcher{httpClient: c.httpClient, accept: constants.AcceptReactionsPreview}

	reactions, err := ghapi.FetchAllPages[ghapi.Reaction](ctx, fetcher, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing reactions: %w", err)
	}

	return reactions, nil
}

// CreateForIssue implements ghapi.ReactionsClient.CreateForIssue.
func (c *ReactionsClient) CreateForIssue(ctx context.Context, repo ghapi.RepositoryRef, number int, content string) (*ghapi.Reaction, error) {
	resp, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method: "POST",
		Path:   issuePath(repo, number) + "/reactions",
		Body:   &ghapi.ReactionRequest{Content: content},
		Accept: constants.AcceptReactionsPreview,
	})
	if err != nil {
		return nil, fmt.Errorf("creating reaction: %w", err)
	}

	var reaction ghapi.Reaction

	err = json.Unmarshal(resp.Body, &reaction)
	if err != nil {
		return nil, fmt.Errorf("parsing reaction response: %w", err)
	}

	return &reaction, nil
}

// DeleteForIssue implements ghapi.ReactionsClient.DeleteForIssue.
func (c *ReactionsClient) DeleteForIssue(ctx context.Context, repo ghapi.RepositoryRef, number int, reactionID int64) error {
	_, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method: "DELETE",
		Path:   issuePath(repo, number) + "/reactions/" + strconv.FormatInt(reactionID, 10),
		Accept: constants.AcceptReactionsPreview,
	})
	if err != nil {
		return fmt.Errorf("deleting reaction: %w", err)
	}

	return nil
}
