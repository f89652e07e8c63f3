package client

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/nacl/box"

	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

func TestSecretsClient_GetPublicKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/actions/secrets/public-key", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		key := ghapi.PublicKey{
			KeyID: "568250167242549743",
			Key:   "2Sg8iYjAxxmI2LvUXpJjkYrMxURPc8r+dB7TJyvvcCU=",
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(key)
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	secrets := NewSecretsClient(client.httpClient)

	key, err := secrets.GetPublicKey(context.Background(), testRepo)
	require.NoError(t, err)
	assert.Equal(t, "568250167242549743", key.KeyID)
	assert.Equal(t, "2Sg8iYjAxxmI2LvUXpJjkYrMxURPc8r+dB7TJyvvcCU=", key.Key)
}

func TestSecretsClient_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/actions/secrets", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("page") == "2" {
			_ = json.NewEncoder(w).Encode(ghapi.SecretListPage{
				TotalCount: 3,
				Secrets:    []ghapi.Secret{{Name: "NPM_TOKEN"}},
			})

			return
		}

		w.Header().Set("Link", `<http://`+r.Host+`/repos/octocat/hello-world/actions/secrets?page=2>; rel="next"`)
		_ = json.NewEncoder(w).Encode(ghapi.SecretListPage{
			TotalCount: 3,
			Secrets: []ghapi.Secret{
				{Name: "DEPLOY_TOKEN", CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
				{Name: "GH_TOKEN"},
			},
		})
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	secrets := NewSecretsClient(client.httpClient)

	list, err := secrets.List(context.Background(), testRepo, nil)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "DEPLOY_TOKEN", list[0].Name)
	assert.Equal(t, "NPM_TOKEN", list[2].Name)
}

func TestSecretsClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/actions/secrets/DEPLOY_TOKEN", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		secret := ghapi.Secret{
			Name:      "DEPLOY_TOKEN",
			CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(secret)
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	secrets := NewSecretsClient(client.httpClient)

	secret, err := secrets.Get(context.Background(), testRepo, "DEPLOY_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "DEPLOY_TOKEN", secret.Name)
}

func TestSecretsClient_CreateOrUpdate(t *testing.T) {
	publicKey, privateKey, err := box.GenerateKey(rand.Reader)
	require.NoError(t, err)

	encodedKey := base64.StdEncoding.EncodeToString(publicKey[:])

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			assert.Equal(t, "/repos/octocat/hello-world/actions/secrets/public-key", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(ghapi.PublicKey{KeyID: "568250167242549743", Key: encodedKey})
		case "PUT":
			assert.Equal(t, "/repos/octocat/hello-world/actions/secrets/DEPLOY_TOKEN", r.URL.Path)

			var req ghapi.SecretPutRequest

			decodeErr := json.NewDecoder(r.Body).Decode(&req)
			assert.NoError(t, decodeErr)
			assert.Equal(t, "568250167242549743", req.KeyID)

			// The sealed value must open against the served key pair.
			ciphertext, decodeErr := base64.StdEncoding.DecodeString(req.EncryptedValue)
			assert.NoError(t, decodeErr)

			plaintext, ok := box.OpenAnonymous(nil, ciphertext, publicKey, privateKey)
			assert.True(t, ok)
			assert.Equal(t, "hunter2", string(plaintext))

			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	secrets := NewSecretsClient(client.httpClient)

	err = secrets.CreateOrUpdate(context.Background(), testRepo, "DEPLOY_TOKEN", "hunter2")
	require.NoError(t, err)
}

func TestSecretsClient_CreateOrUpdate_BadPublicKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ghapi.PublicKey{KeyID: "1", Key: "not base64!!"})
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	secrets := NewSecretsClient(client.httpClient)

	err := secrets.CreateOrUpdate(context.Background(), testRepo, "DEPLOY_TOKEN", "hunter2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encrypting secret")
}

func TestSecretsClient_Delete(t *testing.T) {
	tests := []TestDeleteOperation{
		{
			Name:         "successful delete",
			Identifier:   "DEPLOY_TOKEN",
			ExpectedPath: "/repos/octocat/hello-world/actions/secrets/DEPLOY_TOKEN",
			StatusCode:   http.StatusNoContent,
		},
		{
			Name:         "secret not found",
			Identifier:   "MISSING",
			ExpectedPath: "/repos/octocat/hello-world/actions/secrets/MISSING",
			StatusCode:   http.StatusNotFound,
			WantErr:      true,
			ErrMessage:   "Not Found",
		},
	}

	RunDeleteTests(t, tests,
		func(baseURL string, ctx context.Context, identifier string) error {
			return NewTestClient(baseURL).Secrets().Delete(ctx, testRepo, identifier)
		})
}
