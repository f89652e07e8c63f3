package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// ProjectsClient implements ghapi.ProjectsClient. Classic projects sit
// behind a preview media type, so every request overrides Accept.
type ProjectsClient struct {
	httpClient *internalhttp.Client
}

// NewProjectsClient creates a new classic projects client.
func NewProjectsClient(httpClient *internalhttp.Client) *ProjectsClient {
	return &ProjectsClient{
		httpClient: httpClient,
	}
}

// ListForRepo implements ghapi.ProjectsClient.ListForRepo.
func (c *ProjectsClient) ListForRepo(ctx context.Context, repo ghapi.RepositoryRef, params *ghapi.QueryParams) ([]ghapi.Project, error) {
	path := repoPath(repo) + "/projects"
	fetcher := &acceptFetcher{httpClient: c.httpClient, accept: constants.AcceptProjectsPreview}

	projects, err := ghapi.FetchAllPages[ghapi.Project](ctx, fetcher, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	return projects, nil
}

// Get implements ghapi.ProjectsClient.Get.
func (c *ProjectsClient) Get(ctx context.Context, projectID int64) (*ghapi.Project, error) {
	resp, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method: "GET",
		Path:   projectPath(projectID),
		Accept: constants.AcceptProjectsPreview,
	})
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}

	var project ghapi.Project

	err = json.Unmarshal(resp.Body, &project)
	if err != nil {
		return nil, fmt.Errorf("parsing project response: %w", err)
	}

	return &project, nil
}

// CreateForRepo implements ghapi.ProjectsClient.CreateForRepo.
func (c *ProjectsClient) CreateForRepo(ctx context.Context, repo ghapi.RepositoryRef, request *ghapi.ProjectCreateRequest) (*ghapi.Project, error) {
	resp, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method: "POST",
		Path:   repoPath(repo) + "/projects",
		Body:   request,
		Accept: constants.AcceptProjectsPreview,
	})
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	var project ghapi.Project

	err = json.Unmarshal(resp.Body, &project)
	if err != nil {
		return nil, fmt.Errorf("parsing project response: %w", err)
	}

	return &project, nil
}

// Update implements ghapi.ProjectsClient.Update.
func (c *ProjectsClient) Update(ctx context.Context, projectID int64, request *ghapi.ProjectUpdateRequest) (*ghapi.Project, error) {
	resp, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method: "PATCH",
		Path:   projectPath(projectID),
		Body:   request,
		Accept: constants.AcceptProjectsPreview,
	})
	if err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	var project ghapi.Project

	err = json.Unmarshal(resp.Body, &project)
	if err != nil {
		return nil, fmt.Errorf("parsing project response: %w", err)
	}

	return &project, nil
}

// Delete implements ghapi.ProjectsClient.Delete.
func (c *ProjectsClient) Delete(ctx context.Context, projectID int64) error {
	_, err := c.httpClient.Do(ctx, &internalhttp.Request{
		Method: "DELETE",
		Path:   projectPath(projectID),
		Accept: constants.AcceptProjectsPreview,
	})
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}

	return nil
}

// projectPath addresses one project. Project ids are global, not
// repository scoped.
func projectPath(projectID int64) string {
	return "/projects/" + strconv.FormatInt(projectID, 10)
}

// acceptFetcher walks list pages with an overridden Accept header, used
// by the preview-gated endpoints.
type acceptFetcher struct {
	httpClient *internalhttp.Client
	accept     string
}

func (f *acceptFetcher) FetchPage(ctx context.Context, path string, params *ghapi.QueryParams) (*ghapi.Page, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := f.httpClient.Do(ctx, &internalhttp.Request{
		Method: "GET",
		Path:   path,
		Query:  query,
		Accept: f.accept,
	})
	if err != nil {
		return nil, err
	}

	return &ghapi.Page{Body: resp.Body, NextURL: resp.NextPageURL}, nil
}
