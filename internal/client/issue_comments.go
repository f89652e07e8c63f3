package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// IssueCommentsClient implements ghapi.IssueCommentsClient.
type IssueCommentsClient struct {
	httpClient *http.Client
}

// NewIssueCommentsClient creates a new issue comments client.
func NewIssueCommentsClient(httpClient *http.Client) *IssueCommentsClient {
	return &IssueCommentsClient{
		httpClient: httpClient,
	}
}

// List implements ghapi.IssueCommentsClient.List.
func (c *IssueCommentsClient) List(ctx context.Context, repo ghapi.RepositoryRef, number int, params *ghapi.QueryParams) ([]ghapi.IssueComment, error) {
	path := issuePath(repo, number) + "/comments"

	comments, err := ghapi.FetchAllPages[ghapi.IssueComment](ctx, c.httpClient, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing issue comments: %w", err)
	}

	return comments, nil
}

// ListForRepo implements ghapi.IssueCommentsClient.ListForRepo.
func (c *IssueCommentsClient) ListForRepo(ctx context.Context, repo ghapi.RepositoryRef, params *ghapi.QueryParams) ([]ghapi.IssueComment, error) {
	path := repoPath(repo) + "/issues/comments"

	comments, err := ghapi.FetchAllPages[ghapi.IssueComment](ctx, c.httpClient, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing repository comments: %w", err)
	}

	return comments, nil
}

// Get implements ghapi.IssueCommentsClient.Get.
func (c *IssueCommentsClient) Get(ctx context.Context, repo ghapi.RepositoryRef, commentID int64) (*ghapi.IssueComment, error) {
	resp, err := c.httpClient.Get(ctx, commentPath(repo, commentID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting issue comment: %w", err)
	}

	var comment ghapi.IssueComment

	err = json.Unmarshal(resp.Body, &comment)
	if err != nil {
		return nil, fmt.Errorf("parsing comment response: %w", err)
	}

	return &comment, nil
}

// Create implements ghapi.IssueCommentsClient.Create.
func (c *IssueCommentsClient) Create(ctx context.Context, repo ghapi.RepositoryRef, number int, request *ghapi.IssueCommentRequest) (*ghapi.IssueComment, error) {
	path := issuePath(repo, number) + "/comments"

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("creating issue comment: %w", err)
	}

	var comment ghapi.IssueComment

	err = json.Unmarshal(resp.Body, &comment)
	if err != nil {
		return nil, fmt.Errorf("parsing comment response: %w", err)
	}

	return &comment, nil
}

// Update implements ghapi.IssueCommentsClient.Update.
func (c *IssueCommentsClient) Update(ctx context.Context, repo ghapi.RepositoryRef, commentID int64, request *ghapi.IssueCommentRequest) (*ghapi.IssueComment, error) {
	resp, err := c.httpClient.Patch(ctx, commentPath(repo, commentID), request)
	if err != nil {
		return nil, fmt.Errorf("updating issue comment: %w", err)
	}

	var comment ghapi.IssueComment

	err = json.Unmarshal(resp.Body, &comment)
	if err != nil {
		return nil, fmt.Errorf("parsing comment response: %w", err)
	}

	return &comment, nil
}

// Delete implements ghapi.IssueCommentsClient.Delete.
func (c *IssueCommentsClient) Delete(ctx context.Context, repo ghapi.RepositoryRef, commentID int64) error {
	_, err := c.httpClient.Delete(ctx, commentPath(repo, commentID))
	if err != nil {
		return fmt.Errorf("deleting issue comment: %w", err)
	}

	return nil
}

// commentPath addresses one comment. Comment ids are repository scoped,
// not issue scoped.
func commentPath(repo ghapi.RepositoryRef, commentID int64) string {
	return repoPath(repo) + "/issues/comments/" + strconv.FormatInt(commentID, 10)
}
