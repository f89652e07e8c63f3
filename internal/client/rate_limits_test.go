package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitsClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rate_limit", r.URL.Path)
		assert.Equal(t, "GET", r.Method)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"resources": {
				"core": {"limit": 5000, "remaining": 4999, "reset": 1755772800},
				"search": {"limit": 30, "remaining": 18, "reset": 1755769260},
				"graphql": {"limit": 5000, "remaining": 5000, "reset": 1755772800}
			},
			"rate": {"limit": 5000, "remaining": 4999, "reset": 1755772800}
		}`))
	}))
	defer server.Close()

	client := &Client{httpClient: internalhttp.NewClient(server.URL, nil)}
	rateLimits := NewRateLimitsClient(client.httpClient)

	limits, err := rateLimits.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5000, limits.Rate.Limit)
	assert.Equal(t, 4999, limits.Rate.Remaining)
	assert.Equal(t, 30, limits.Resources.Search.Limit)
	assert.Equal(t, int64(1755772800), limits.Rate.Reset.Unix())
}
