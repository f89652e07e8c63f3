package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// LabelsClient implements ghapi.LabelsClient.
type LabelsClient struct {
	httpClient *http.Client
}

// NewLabelsClient creates a new labels client.
func NewLabelsClient(httpClient *http.Client) *LabelsClient {
	return &LabelsClient{
		httpClient: httpClient,
	}
}

// List implements ghapi.LabelsClient.List.
func (c *LabelsClient) List(ctx context.Context, repo ghapi.RepositoryRef, params *ghapi.QueryParams) ([]ghapi.Label, error) {
	path := repoPath(repo) + "/labels"

	labels, err := ghapi.FetchAllPages[ghapi.Label](ctx, c.httpClient, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing labels: %w", err)
	}

	return labels, nil
}

// Get implements ghapi.LabelsClient.Get.
func (c *LabelsClient) Get(ctx context.Context, repo ghapi.RepositoryRef, name string) (*ghapi.Label, error) {
	resp, err := c.httpClient.Get(ctx, labelPath(repo, name), nil)
	if err != nil {
		return nil, fmt.Errorf("getting label: %w", err)
	}

	var label ghapi.Label

	err = json.Unmarshal(resp.Body, &label)
	if err != nil {
		return nil, fmt.Errorf("parsing label response: %w", err)
	}

	return &label, nil
}

// Create implements ghapi.LabelsClient.Create.
func (c *LabelsClient) Create(ctx context.Context, repo ghapi.RepositoryRef, request *ghapi.LabelCreateRequest) (*ghapi.Label, error) {
	path := repoPath(repo) + "/labels"

	resp, err := c.httpClient.Post(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("creating label: %w", err)
	}

	var label ghapi.Label

	err = json.Unmarshal(resp.Body, &label)
	if err != nil {
		return nil, fmt.Errorf("parsing label response: %w", err)
	}

	return &label, nil
}

// Update implements ghapi.LabelsClient.Update.
func (c *LabelsClient) Update(ctx context.Context, repo ghapi.RepositoryRef, name string, request *ghapi.LabelUpdateRequest) (*ghapi.Label, error) {
	resp, err := c.httpClient.Patch(ctx, labelPath(repo, name), request)
	if err != nil {
		return nil, fmt.Errorf("updating label: %w", err)
	}

	var label ghapi.Label

	err = json.Unmarshal(resp.Body, &label)
	if err != nil {
		return nil, fmt.Errorf("parsing label response: %w", err)
	}

	return &label, nil
}

// Delete implements ghapi.LabelsClient.Delete.
func (c *LabelsClient) Delete(ctx context.Context, repo ghapi.RepositoryRef, name string) error {
	_, err := c.httpClient.Delete(ctx, labelPath(repo, name))
	if err != nil {
		return fmt.Errorf("deleting label: %w", err)
	}

	return nil
}

// ListForIssue implements ghapi.LabelsClient.ListForIssue.
func (c *LabelsClient) ListForIssue(ctx context.Context, repo ghapi.RepositoryRef, number int, params *ghapi.QueryParams) ([]ghapi.Label, error) {
	path := issuePath(repo, number) + "/labels"

	labels, err := ghapi.FetchAllPages[ghapi.Label](ctx, c.httpClient, path, params, nil)
	if err != nil {
		return nil, fmt.Errorf("listing issue labels: %w", err)
	}

	return labels, nil
}

// AddToIssue implements ghapi.LabelsClient.AddToIssue.
func (c *LabelsClient) AddToIssue(ctx context.Context, repo ghapi.RepositoryRef, number int, labels []string) ([]ghapi.Label, error) {
	path := issuePath(repo, number) + "/labels"
	body := map[string][]string{"labels": labels}

	resp, err := c.httpClient.Post(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("adding labels to issue: %w", err)
	}

	var applied []ghapi.Label

	err = json.Unmarshal(resp.Body, &applied)
	if err != nil {
		return nil, fmt.Errorf("parsing labels response: %w", err)
	}

	return applied, nil
}

// RemoveFromIssue implements ghapi.LabelsClient.RemoveFromIssue.
func (c *LabelsClient) RemoveFromIssue(ctx context.Context, repo ghapi.RepositoryRef, number int, name string) error {
	path := issuePath(repo, number) + "/labels" + apiPath(name)

	_, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("removing label from issue: %w", err)
	}

	return nil
}

// SetForIssue implements ghapi.LabelsClient.SetForIssue. The full label
// set is replaced; an empty slice clears every label.
func (c *LabelsClient) SetForIssue(ctx context.Context, repo ghapi.RepositoryRef, number int, labels []string) ([]ghapi.Label, error) {
	path := issuePath(repo, number) + "/labels"
	body := map[string][]string{"labels": labels}

	resp, err := c.httpClient.Put(ctx, path, body)
	if err != nil {
		return nil, fmt.Errorf("setting issue labels: %w", err)
	}

	var applied []ghapi.Label

	err = json.Unmarshal(resp.Body, &applied)
	if err != nil {
		return nil, fmt.Errorf("parsing labels response: %w", err)
	}

	return applied, nil
}

// labelPath addresses one label by name. Names may contain spaces and
// unicode; they travel escaped.
func labelPath(repo ghapi.RepositoryRef, name string) string {
	return repoPath(repo) + "/labels" + apiPath(name)
}
