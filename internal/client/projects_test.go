package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectsClient_ListForRepo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/projects", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "application/vnd.github.inertia-preview+json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("page") == "2" {
			_ = json.NewEncoder(w).Encode([]ghapi.Project{{ID: 1003, Name: "Backlog"}})

			return
		}

		w.Header().Set("Link", `<http://`+r.Host+`/repos/octocat/hello-world/projects?page=2>; rel="next"`)
		_ = json.NewEncoder(w).Encode([]ghapi.Project{
			{ID: 1001, Name: "Roadmap"},
			{ID: 1002, Name: "Release 1.0"},
		})
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	projects := NewProjectsClient(client.httpClient)

	list, err := projects.ListForRepo(context.Background(), testRepo, nil)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Roadmap", list[0].Name)
	assert.Equal(t, "Backlog", list[2].Name)
}

func TestProjectsClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/1002", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "application/vnd.github.inertia-preview+json", r.Header.Get("Accept"))

		project := ghapi.Project{
			ID:     1002,
			Number: 2,
			Name:   "Release 1.0",
			State:  "open",
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(project)
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	projects := NewProjectsClient(client.httpClient)

	project, err := projects.Get(context.Background(), 1002)
	require.NoError(t, err)
	assert.Equal(t, "Release 1.0", project.Name)
	assert.Equal(t, "open", project.State)
}

func TestProjectsClient_CreateForRepo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/projects", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/vnd.github.inertia-preview+json", r.Header.Get("Accept"))

		var req ghapi.ProjectCreateRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		assert.Equal(t, "Roadmap", req.Name)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(ghapi.Project{ID: 1001, Name: req.Name, State: "open"})
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	projects := NewProjectsClient(client.httpClient)

	project, err := projects.CreateForRepo(context.Background(), testRepo, &ghapi.ProjectCreateRequest{
		Name: "Roadmap",
		Body: "Long term plans",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), project.ID)
}

func TestProjectsClient_Update(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/1001", r.URL.Path)
		assert.Equal(t, "PATCH", r.Method)
		assert.Equal(t, "application/vnd.github.inertia-preview+json", r.Header.Get("Accept"))

		var req ghapi.ProjectUpdateRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		require.NotNil(t, req.State)
		assert.Equal(t, "closed", *req.State)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ghapi.Project{ID: 1001, Name: "Roadmap", State: "closed"})
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	projects := NewProjectsClient(client.httpClient)

	project, err := projects.Update(context.Background(), 1001, &ghapi.ProjectUpdateRequest{
		State: StringPtr("closed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "closed", project.State)
}

func TestProjectsClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/1001", r.URL.Path)
		assert.Equal(t, "DELETE", r.Method)
		assert.Equal(t, "application/vnd.github.inertia-preview+json", r.Header.Get("Accept"))

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	projects := NewProjectsClient(client.httpClient)

	err := projects.Delete(context.Background(), 1001)
	require.NoError(t, err)
}
