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

func TestReferencesClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Single-ref reads go through /git/ref/, not /git/refs/.
		assert.Equal(t, "/repos/octocat/hello-world/git/ref/heads/main", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		ref := ghapi.Reference{
			Ref:    "refs/heads/main",
			Object: ghapi.GitObject{Type: "commit", SHA: "abc123"},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ref)
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	references := NewReferencesClient(client.httpClient)

	ref, err := references.Get(context.Background(), testRepo, "heads/main")
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/main", ref.Ref)
	assert.Equal(t, "abc123", ref.Object.SHA)
}

func TestReferencesClient_ListMatching(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/git/matching-refs/tags/v1", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]ghapi.Reference{
			{Ref: "refs/tags/v1.0.0", Object: ghapi.GitObject{Type: "tag", SHA: "aaa"}},
			{Ref: "refs/tags/v1.1.0", Object: ghapi.GitObject{Type: "tag", SHA: "bbb"}},
		})
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	references := NewReferencesClient(client.httpClient)

	refs, err := references.ListMatching(context.Background(), testRepo, "tags/v1", nil)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "refs/tags/v1.0.0", refs[0].Ref)
}

func TestReferencesClient_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/git/refs", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var req ghapi.ReferenceCreateRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		assert.Equal(t, "refs/heads/feature-x", req.Ref)
		assert.Equal(t, "abc123", req.SHA)

		ref := ghapi.Reference{
			Ref:    req.Ref,
			Object: ghapi.GitObject{Type: "commit", SHA: req.SHA},
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(ref)
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	references := NewReferencesClient(client.httpClient)

	ref, err := references.Create(context.Background(), testRepo, &ghapi.ReferenceCreateRequest{
		Ref: "refs/heads/feature-x",
		SHA: "abc123",
	})
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/feature-x", ref.Ref)
}

func TestReferencesClient_Update(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/git/refs/heads/feature-x", r.URL.Path)
		assert.Equal(t, "PATCH", r.Method)

		var req ghapi.ReferenceUpdateRequest

		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		assert.Equal(t, "def456", req.SHA)
		assert.True(t, req.Force)

		ref := ghapi.Reference{
			Ref:    "refs/heads/feature-x",
			Object: ghapi.GitObject{Type: "commit", SHA: req.SHA},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ref)
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	references := NewReferencesClient(client.httpClient)

	ref, err := references.Update(context.Background(), testRepo, "heads/feature-x", &ghapi.ReferenceUpdateRequest{
		SHA:   "def456",
		Force: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "def456", ref.Object.SHA)
}

func TestReferencesClient_Update_NonFastForward(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusUnprocessableEntity, "Update is not a fast forward")
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	references := NewReferencesClient(client.httpClient)

	ref, err := references.Update(context.Background(), testRepo, "heads/main", &ghapi.ReferenceUpdateRequest{
		SHA: "def456",
	})
	require.Error(t, err)
	assert.Nil(t, ref)
	assert.True(t, ghapi.IsValidationFailed(err))
	assert.Contains(t, err.Error(), "Update is not a fast forward")
}

func TestReferencesClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/git/refs/heads/feature-x", r.URL.Path)
		assert.Equal(t, "DELETE", r.Method)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	references := NewReferencesClient(client.httpClient)

	err := references.Delete(context.Background(), testRepo, "heads/feature-x")
	require.NoError(t, err)
}
