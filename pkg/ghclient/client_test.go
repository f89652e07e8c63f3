package ghclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("creates client with config", func(t *testing.T) {
		t.Parallel()

		config := &ghapi.Config{
			APIEndpoint: "https://api.example.com",
		}

		client, err := ghclient.New(config)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("defaults to the public endpoint", func(t *testing.T) {
		t.Parallel()

		client, err := ghclient.New(&ghapi.Config{Token: "ghp_testtoken"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		client, err := ghclient.New(nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ghapi.ErrConfigRequired)
		assert.Nil(t, client)
	})

	t.Run("adds https scheme to bare hosts", func(t *testing.T) {
		t.Parallel()

		client, err := ghclient.New(&ghapi.Config{APIEndpoint: "github.example.com/api/v3"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("leaves the caller's config untouched", func(t *testing.T) {
		t.Parallel()

		config := &ghapi.Config{APIEndpoint: "api.example.com/"}

		_, err := ghclient.New(config)
		require.NoError(t, err)
		assert.Equal(t, "api.example.com/", config.APIEndpoint)
	})
}

func TestNew_SkipTLSVerifyOutsideDevelopment(t *testing.T) {
	t.Setenv("GHAPI_DEV_MODE", "")

	client, err := ghclient.New(&ghapi.Config{SkipTLSVerify: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ghapi.ErrSkipTLSOnlyInDev)
	assert.Contains(t, err.Error(), "GHAPI_DEV_MODE")
	assert.Nil(t, client)
}

func TestNew_SkipTLSVerifyInDevelopment(t *testing.T) {
	t.Setenv("GHAPI_DEV_MODE", "true")

	client, err := ghclient.New(&ghapi.Config{SkipTLSVerify: true})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewWithEndpoint(t *testing.T) {
	t.Parallel()

	client, err := ghclient.NewWithEndpoint("https://github.example.com/api/v3")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	client, err := ghclient.NewWithToken("ghp_testtoken")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestClientIntegration(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/zen":
			_, _ = writer.Write([]byte("Keep it logically awesome."))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	// The trailing slash must disappear during endpoint normalization or
	// the request path would start with a double slash.
	client, err := ghclient.NewWithEndpoint(server.URL + "/")
	require.NoError(t, err)

	zen, err := client.GetZen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Keep it logically awesome.", zen)
}
