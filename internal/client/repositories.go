package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// RepositoriesClient implements ghapi.RepositoriesClient.
type RepositoriesClient struct {
	httpClient *internalhttp.Client
}

// NewRepositoriesClient creates a new repositories client.
func NewRepositoriesClient(httpClient *internalhttp.Client) *RepositoriesClient {
	return &RepositoriesClient{
		httpClient: httpClient,
	}
}

// Get implements ghapi.RepositoriesClient.Get.
func (c *RepositoriesClient) Get(ctx context.Context, repo ghapi.RepositoryRef) (*ghapi.Repository, error) {
	resp, err := c.httpClient.Get(ctx, repoPath(repo), nil)
	if err != nil {
		return nil, fmt.Errorf("getting repository: %w", err)
	}

	var repository ghapi.Repository

	err = json.Unmarshal(resp.Body, &repository)
	if err != nil {
		return nil, fmt.Errorf("parsing repository response: %w", err)
	}

	return &repository, nil
}

// GetByID implements ghapi.RepositoriesClient.GetByID.
func (c *RepositoriesClient) GetByID(ctx context.Context, id int64) (*ghapi.Repository, error) {
	path := "/repositories/" + strconv.FormatInt(id, 10)

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting repository by id: %w", err)
	}

	var repository ghapi.Repository

	err = json.Unmarshal(resp.Body, &repository)
	if err != nil {
		return nil, fmt.Errorf("parsing repository response: %w", err)
	}

	return &repository, nil
}

// ListForUser implements ghapi.RepositoriesClient.ListForUser.
func (c *RepositoriesClient) ListForUser(ctx context.Context, username string, params *ghapi.QueryParams) ([]ghapi.Repository, error) {
	path := apiPath("users", username, "repos")

	repositories, err := ghapi.FetchAllPages[ghapi.Repository](ctx, c.httpClient, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing repositories: %w", err)
	}

	return repositories, nil
}

// GetContents implements ghapi.RepositoriesClient.GetContents.
func (c *RepositoriesClient) GetContents(ctx context.Context, repo ghapi.RepositoryRef, path, ref string) (*ghapi.RepositoryContent, error) {
	var query url.Values
	if ref != "" {
		query = url.Values{"ref": []string{ref}}
	}

	resp, err := c.httpClient.Get(ctx, contentsPath(repo, path), query)
	if err != nil {
		return nil, fmt.Errorf("getting repository contents: %w", err)
	}

	var content ghapi.RepositoryContent

	err = json.Unmarshal(resp.Body, &content)
	if err != nil {
		return nil, fmt.Errorf("parsing contents response: %w", err)
	}

	return &content, nil
}

// CreateOrUpdateFile implements ghapi.RepositoriesClient.CreateOrUpdateFile.
func (c *RepositoriesClient) CreateOrUpdateFile(ctx context.Context, repo ghapi.RepositoryRef, path string, request *ghapi.FileCommitRequest) (*ghapi.FileCommit, error) {
	resp, err := c.httpClient.Put(ctx, contentsPath(repo, path), request)
	if err != nil {
		return nil, fmt.Errorf("committing file: %w", err)
	}

	var commit ghapi.FileCommit

	err = json.Unmarshal(resp.Body, &commit)
	if err != nil {
		return nil, fmt.Errorf("parsing file commit response: %w", err)
	}

	return &commit, nil
}

// DeleteFile implements ghapi.RepositoriesClient.DeleteFile. The contents
// API takes the commit message and blob SHA in the DELETE body.
func (c *RepositoriesClient) DeleteFile(ctx context.Context, repo ghapi.RepositoryRef, path string, request *ghapi.FileCommitRequest) (*ghapi.FileCommit, error) {
	resp, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method: "DELETE",
		Path:   contentsPath(repo, path),
		Body:   request,
	})
	if err != nil {
		return nil, fmt.Errorf("deleting file: %w", err)
	}

	var commit ghapi.FileCommit

	err = json.Unmarshal(resp.Body, &commit)
	if err != nil {
		return nil, fmt.Errorf("parsing file commit response: %w", err)
	}

	return &commit, nil
}

// contentsPath addresses a file through the contents API, keeping the
// directory structure of the file path intact.
func contentsPath(repo ghapi.RepositoryRef, path string) string {
	return repoPath(repo) + "/contents/" + escapeRef(path)
}
