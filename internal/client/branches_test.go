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

func TestBranchesClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/branches", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]ghapi.Branch{
			{Name: "main", Commit: ghapi.BranchCommit{SHA: "abc123"}, Protected: true},
			{Name: "dev", Commit: ghapi.BranchCommit{SHA: "def456"}},
		})
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	branches := NewBranchesClient(client.httpClient)

	list, err := branches.List(context.Background(), testRepo, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "main", list[0].Name)
	assert.True(t, list[0].Protected)
}

func TestBranchesClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/branches/main", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ghapi.Branch{Name: "main", Commit: ghapi.BranchCommit{SHA: "abc123"}})
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	branches := NewBranchesClient(client.httpClient)

	branch, err := branches.Get(context.Background(), testRepo, "main")
	require.NoError(t, err)
	assert.Equal(t, "main", branch.Name)
	assert.Equal(t, "abc123", branch.Commit.SHA)
}

func TestBranchesClient_Get_SlashInName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Branch names keep their slashes as path structure.
		assert.Equal(t, "/repos/octocat/hello-world/branches/release/1.2", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ghapi.Branch{Name: "release/1.2"})
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	branches := NewBranchesClient(client.httpClient)

	branch, err := branches.Get(context.Background(), testRepo, "release/1.2")
	require.NoError(t, err)
	assert.Equal(t, "release/1.2", branch.Name)
}

func TestBranchesClient_GetProtection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/branches/main/protection", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		protection := ghapi.BranchProtection{
			RequiredStatusChecks: &ghapi.RequiredStatusChecks{Strict: true, Contexts: []string{"ci/build"}},
			EnforceAdmins:        &ghapi.EnforceAdmins{Enabled: true},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(protection)
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	branches := NewBranchesClient(client.httpClient)

	protection, err := branches.GetProtection(context.Background(), testRepo, "main")
	require.NoError(t, err)
	require.NotNil(t, protection.RequiredStatusChecks)
	assert.True(t, protection.RequiredStatusChecks.Strict)
	assert.Equal(t, []string{"ci/build"}, protection.RequiredStatusChecks.Contexts)
}

func TestBranchesClient_GetProtection_NotProtected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "Branch not protected")
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	branches := NewBranchesClient(client.httpClient)

	protection, err := branches.GetProtection(context.Background(), testRepo, "dev")
	require.Error(t, err)
	assert.Nil(t, protection)
	assert.True(t, ghapi.IsNotFound(err))
	assert.Contains(t, err.Error(), "Branch not protected")
}

func TestBranchesClient_UpdateProtection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/branches/main/protection", r.URL.Path)
		assert.Equal(t, "PUT", r.Method)

		var req ghapi.BranchProtectionRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		require.NotNil(t, req.RequiredStatusChecks)
		assert.True(t, req.RequiredStatusChecks.Strict)

		// The API requires all four protection keys even when null.
		protection := ghapi.BranchProtection{
			RequiredStatusChecks: req.RequiredStatusChecks,
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(protection)
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	branches := NewBranchesClient(client.httpClient)

	protection, err := branches.UpdateProtection(context.Background(), testRepo, "main", &ghapi.BranchProtectionRequest{
		RequiredStatusChecks: &ghapi.RequiredStatusChecks{Strict: true, Contexts: []string{"ci/build"}},
	})
	require.NoError(t, err)
	require.NotNil(t, protection.RequiredStatusChecks)
	assert.True(t, protection.RequiredStatusChecks.Strict)
}

func TestBranchesClient_RemoveProtection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/branches/main/protection", r.URL.Path)
		assert.Equal(t, "DELETE", r.Method)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	branches := NewBranchesClient(client.httpClient)

	err := branches.RemoveProtection(context.Background(), testRepo, "main")
	require.NoError(t, err)
}
