package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/fivetwenty-io/ghapi-client/internal/http"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// Test static errors.
var (
	ErrTestSomeError = errors.New("some error")
)

// testRepo is the repository most resource tests run against.
var testRepo = ghapi.RepositoryRef{Owner: "octocat", Name: "hello-world"}

// NewTestClient creates a new test client with the given base URL.
func NewTestClient(baseURL string) *Client {
	// Create HTTP client without token manager for testing
	httpClient := internalhttp.NewClient(baseURL, nil)

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}

	// Initialize resource clients
	client.initializeResourceClients()

	return client
}

// writeAPIError writes an error body in the shape the API uses.
func writeAPIError(writer http.ResponseWriter, statusCode int, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(map[string]interface{}{
		"message":           message,
		"documentation_url": "https://docs.github.com/rest",
	})
}

// TestCreateOperation represents a generic create operation test case.
type TestCreateOperation[TRequest, TResponse any] struct {
	Name         string
	Request      *TRequest
	ExpectedPath string
	StatusCode   int
	Response     interface{} // Can be *TResponse or error response map
	WantErr      bool
	ErrMessage   string
}

// TestGetOperation represents a generic get operation test case.
type TestGetOperation[TResponse any] struct {
	Name         string
	Identifier   string
	ExpectedPath string
	StatusCode   int
	Response     *TResponse
	WantErr      bool
	ErrMessage   string
}

// TestUpdateOperation represents a generic update operation test case.
type TestUpdateOperation[TRequest, TResponse any] struct {
	Name         string
	Identifier   string
	Request      *TRequest
	ExpectedPath string
	StatusCode   int
	Response     *TResponse
	WantErr      bool
	ErrMessage   string
}

// TestDeleteOperation represents a generic delete operation test case.
type TestDeleteOperation struct {
	Name         string
	Identifier   string
	ExpectedPath string
	StatusCode   int
	WantErr      bool
	ErrMessage   string
}

// RunCreateTests runs a series of create operation tests.
func RunCreateTests[TRequest, TResponse any](
	t *testing.T,
	tests []TestCreateOperation[TRequest, TResponse],
	createFunc func(*Client) func(context.Context, *TRequest) (*TResponse, error),
	requestDecoder func(*http.Request) (*TRequest, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, "POST", request.Method)

				if requestDecoder != nil {
					_, err := requestDecoder(request)
					assert.NoError(t, err)
				}

				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)

				if testCase.Response != nil {
					_ = json.NewEncoder(writer).Encode(testCase.Response)
				}
			}))
			defer server.Close()

			client, err := New(&ghapi.Config{APIEndpoint: server.URL})
			require.NoError(t, err)

			createFn := createFunc(client)
			result, err := createFn(context.Background(), testCase.Request)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}
		})
	}
}

// RunGetTests runs a series of get operation tests.
func RunGetTests[TResponse any](
	t *testing.T,
	tests []TestGetOperation[TResponse],
	getFunc func(*Client) func(context.Context, string) (*TResponse, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, "GET", request.Method)

				if testCase.WantErr {
					writeAPIError(writer, testCase.StatusCode, "Not Found")

					return
				}

				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)

				if testCase.Response != nil {
					_ = json.NewEncoder(writer).Encode(testCase.Response)
				}
			}))
			defer server.Close()

			client, err := New(&ghapi.Config{APIEndpoint: server.URL})
			require.NoError(t, err)

			getFn := getFunc(client)
			result, err := getFn(context.Background(), testCase.Identifier)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}
		})
	}
}

// RunUpdateTests runs a series of update operation tests.
func RunUpdateTests[TRequest, TResponse any](
	t *testing.T,
	tests []TestUpdateOperation[TRequest, TResponse],
	updateFunc func(string, context.Context, string, *TRequest) (*TResponse, error),
	requestDecoder func(*http.Request) (*TRequest, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, "PATCH", request.Method)

				if requestDecoder != nil {
					_, err := requestDecoder(request)
					assert.NoError(t, err)
				}

				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)

				if testCase.Response != nil {
					_ = json.NewEncoder(writer).Encode(testCase.Response)
				}
			}))
			defer server.Close()

			result, err := updateFunc(server.URL, context.Background(), testCase.Identifier, testCase.Request)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}
		})
	}
}

// RunDeleteTests runs a series of delete operation tests.
func RunDeleteTests(
	t *testing.T,
	tests []TestDeleteOperation,
	deleteFunc func(string, context.Context, string) error,
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, "DELETE", request.Method)

				if testCase.WantErr {
					writeAPIError(writer, testCase.StatusCode, "Not Found")

					return
				}

				writer.WriteHeader(testCase.StatusCode)
			}))
			defer server.Close()

			err := deleteFunc(server.URL, context.Background(), testCase.Identifier)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// StringPtr is a helper function that returns a pointer to the given string.
func StringPtr(s string) *string {
	return &s
}
