package ghapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name:     "message only",
			err:      &APIError{Message: "Not Found"},
			expected: "Not Found",
		},
		{
			name: "with field errors",
			err: &APIError{
				Message: "Validation Failed",
				Errors: []FieldError{
					{Resource: "Issue", Field: "title", Code: "missing_field"},
					{Resource: "Issue", Field: "body", Code: "invalid"},
				},
			},
			expected: "Validation Failed (2 field errors)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestFieldError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *FieldError
		expected string
	}{
		{
			name:     "with message",
			err:      &FieldError{Resource: "Issue", Field: "title", Code: "custom", Message: "title is too long"},
			expected: "title is too long",
		},
		{
			name:     "code form",
			err:      &FieldError{Resource: "Issue", Field: "title", Code: "missing_field"},
			expected: "Issue.title: missing_field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestResponseError_Error(t *testing.T) {
	reset := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		err      *ResponseError
		expected string
	}{
		{
			name:     "message and kind",
			err:      &ResponseError{StatusCode: 404, Kind: ErrorKindNotFound, Message: "Not Found"},
			expected: "Not Found (HTTP 404, not_found)",
		},
		{
			name:     "empty message falls back to status text",
			err:      &ResponseError{StatusCode: 502, Kind: ErrorKindServerError},
			expected: "Bad Gateway (HTTP 502, server_error)",
		},
		{
			name: "validation error includes first field error",
			err: &ResponseError{
				StatusCode: 422,
				Kind:       ErrorKindValidation,
				Message:    "Validation Failed",
				Errors: []FieldError{
					{Resource: "Issue", Field: "title", Code: "missing_field"},
				},
			},
			expected: "Validation Failed (HTTP 422, validation_failed): Issue.title: missing_field",
		},
		{
			name: "rate limited includes reset time",
			err: &ResponseError{
				StatusCode:     403,
				Kind:           ErrorKindRateLimited,
				Message:        "API rate limit exceeded",
				RateLimitReset: &reset,
			},
			expected: "API rate limit exceeded (HTTP 403, rate_limited, resets 2024-01-02T15:04:05Z)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestResponseError_FirstFieldError(t *testing.T) {
	t.Run("with errors", func(t *testing.T) {
		err := &ResponseError{
			Errors: []FieldError{
				{Resource: "Issue", Field: "title", Code: "missing_field"},
				{Resource: "Issue", Field: "body", Code: "invalid"},
			},
		}

		first := err.FirstFieldError()
		require.NotNil(t, first)
		assert.Equal(t, "title", first.Field)
		assert.Equal(t, "missing_field", first.Code)
	})

	t.Run("without errors", func(t *testing.T) {
		err := &ResponseError{}
		assert.Nil(t, err.FirstFieldError())
	})
}

func TestNewResponseError(t *testing.T) {
	t.Run("standard error body", func(t *testing.T) {
		body := `{
			"message": "Validation Failed",
			"errors": [
				{"resource": "Issue", "field": "title", "code": "missing_field"}
			],
			"documentation_url": "https://docs.github.com/rest/issues/issues#create-an-issue"
		}`

		respErr := NewResponseError(422, []byte(body))
		assert.Equal(t, 422, respErr.StatusCode)
		assert.Equal(t, ErrorKindValidation, respErr.Kind)
		assert.Equal(t, "Validation Failed", respErr.Message)
		require.Len(t, respErr.Errors, 1)
		assert.Equal(t, "missing_field", respErr.Errors[0].Code)
		assert.Equal(t, "https://docs.github.com/rest/issues/issues#create-an-issue", respErr.DocumentationURL)
	})

	t.Run("non JSON body preserved verbatim", func(t *testing.T) {
		respErr := NewResponseError(500, []byte("upstream exploded\n"))
		assert.Equal(t, ErrorKindServerError, respErr.Kind)
		assert.Equal(t, "upstream exploded", respErr.Message)
	})

	t.Run("empty body falls back to status text", func(t *testing.T) {
		respErr := NewResponseError(404, nil)
		assert.Equal(t, ErrorKindNotFound, respErr.Kind)
		assert.Equal(t, "Not Found", respErr.Message)
	})

	t.Run("json body without message treated as text", func(t *testing.T) {
		respErr := NewResponseError(409, []byte(`{"detail": "merge conflict"}`))
		assert.Equal(t, ErrorKindConflict, respErr.Kind)
		assert.Equal(t, `{"detail": "merge conflict"}`, respErr.Message)
	})
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorKind
	}{
		{http.StatusUnauthorized, ErrorKindAuthentication},
		{http.StatusForbidden, ErrorKindForbidden},
		{http.StatusNotFound, ErrorKindNotFound},
		{http.StatusConflict, ErrorKindConflict},
		{http.StatusUnprocessableEntity, ErrorKindValidation},
		{http.StatusTooManyRequests, ErrorKindRateLimited},
		{http.StatusInternalServerError, ErrorKindServerError},
		{http.StatusBadGateway, ErrorKindServerError},
		{http.StatusServiceUnavailable, ErrorKindServerError},
		{http.StatusTeapot, ErrorKindUnclassified},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, classifyStatus(tt.status))
		})
	}
}

func TestTransportError(t *testing.T) {
	underlying := ErrSomeError
	transportErr := &TransportError{URL: "https://api.github.com/zen", Err: underlying}

	assert.Equal(t, "transport failure for https://api.github.com/zen: some error", transportErr.Error())
	assert.ErrorIs(t, transportErr, underlying)
}

func TestIsInvalidArgument(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "empty path sentinel",
			err:      ErrEmptyPath,
			expected: true,
		},
		{
			name:     "wrapped sentinel",
			err:      fmt.Errorf("building request: %w", ErrEmptyOwner),
			expected: true,
		},
		{
			name:     "response error",
			err:      &ResponseError{StatusCode: 404, Kind: ErrorKindNotFound},
			expected: false,
		},
		{
			name:     "other error type",
			err:      ErrSomeError,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsInvalidArgument(tt.err))
		})
	}
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
		expected  bool
	}{
		{
			name:      "not found matches",
			err:       &ResponseError{StatusCode: 404, Kind: ErrorKindNotFound},
			predicate: IsNotFound,
			expected:  true,
		},
		{
			name:      "not found wrapped matches",
			err:       fmt.Errorf("getting repository: %w", &ResponseError{StatusCode: 404, Kind: ErrorKindNotFound}),
			predicate: IsNotFound,
			expected:  true,
		},
		{
			name:      "not found does not match conflict",
			err:       &ResponseError{StatusCode: 409, Kind: ErrorKindConflict},
			predicate: IsNotFound,
			expected:  false,
		},
		{
			name:      "authentication matches",
			err:       &ResponseError{StatusCode: 401, Kind: ErrorKindAuthentication},
			predicate: IsAuthenticationRequired,
			expected:  true,
		},
		{
			name:      "forbidden matches",
			err:       &ResponseError{StatusCode: 403, Kind: ErrorKindForbidden},
			predicate: IsForbidden,
			expected:  true,
		},
		{
			name:      "rate limited 403 is not forbidden",
			err:       &ResponseError{StatusCode: 403, Kind: ErrorKindRateLimited},
			predicate: IsForbidden,
			expected:  false,
		},
		{
			name:      "conflict matches",
			err:       &ResponseError{StatusCode: 409, Kind: ErrorKindConflict},
			predicate: IsConflict,
			expected:  true,
		},
		{
			name:      "validation matches",
			err:       &ResponseError{StatusCode: 422, Kind: ErrorKindValidation},
			predicate: IsValidationFailed,
			expected:  true,
		},
		{
			name:      "rate limited matches",
			err:       &ResponseError{StatusCode: 429, Kind: ErrorKindRateLimited},
			predicate: IsRateLimited,
			expected:  true,
		},
		{
			name:      "server error matches",
			err:       &ResponseError{StatusCode: 503, Kind: ErrorKindServerError},
			predicate: IsServerError,
			expected:  true,
		},
		{
			name:      "plain error matches nothing",
			err:       ErrSomeError,
			predicate: IsNotFound,
			expected:  false,
		},
		{
			name:      "nil error matches nothing",
			err:       nil,
			predicate: IsRateLimited,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.predicate(tt.err))
		})
	}
}

func TestIsTransportError(t *testing.T) {
	transportErr := &TransportError{URL: "https://api.github.com", Err: ErrSomeError}

	assert.True(t, IsTransportError(transportErr))
	assert.True(t, IsTransportError(fmt.Errorf("listing issues: %w", transportErr)))
	assert.False(t, IsTransportError(&ResponseError{StatusCode: 500, Kind: ErrorKindServerError}))
	assert.False(t, IsTransportError(nil))
}

func TestRateLimitResetTime(t *testing.T) {
	reset := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)

	t.Run("rate limited with reset", func(t *testing.T) {
		err := fmt.Errorf("listing gists: %w", &ResponseError{
			StatusCode:     429,
			Kind:           ErrorKindRateLimited,
			RateLimitReset: &reset,
		})

		got, ok := RateLimitResetTime(err)
		require.True(t, ok)
		assert.True(t, got.Equal(reset))
	})

	t.Run("rate limited without reset", func(t *testing.T) {
		err := &ResponseError{StatusCode: 429, Kind: ErrorKindRateLimited}

		_, ok := RateLimitResetTime(err)
		assert.False(t, ok)
	})

	t.Run("other kind", func(t *testing.T) {
		err := &ResponseError{StatusCode: 404, Kind: ErrorKindNotFound, RateLimitReset: &reset}

		_, ok := RateLimitResetTime(err)
		assert.False(t, ok)
	})

	t.Run("plain error", func(t *testing.T) {
		_, ok := RateLimitResetTime(errors.New("some error"))
		assert.False(t, ok)
	})
}

func TestArgumentSentinelsWrapRoot(t *testing.T) {
	sentinels := []error{
		ErrEmptyPath,
		ErrEmptyOwner,
		ErrEmptyRepoName,
		ErrInvalidRepoPath,
		ErrInvalidRepositoryURL,
		ErrEmptyGistID,
		ErrEmptyLabelName,
		ErrEmptySecretName,
		ErrEmptyReference,
		ErrEmptyTeamSlug,
		ErrEmptyOrg,
		ErrEmptyUsername,
		ErrEmptyContentPath,
		ErrEmptyCommitMessage,
		ErrEmptySecretValue,
	}

	for _, sentinel := range sentinels {
		assert.ErrorIs(t, sentinel, ErrInvalidArgument, "sentinel %v", sentinel)
	}
}
