package ghapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorKind classifies a failed API call.
type ErrorKind string

// Error kinds, one per failure class the engine distinguishes.
const (
	ErrorKindAuthentication ErrorKind = "authentication_required"
	ErrorKindForbidden      ErrorKind = "forbidden"
	ErrorKindNotFound       ErrorKind = "not_found"
	ErrorKindConflict       ErrorKind = "conflict"
	ErrorKindValidation     ErrorKind = "validation_failed"
	ErrorKindRateLimited    ErrorKind = "rate_limited"
	ErrorKindServerError    ErrorKind = "server_error"
	ErrorKindUnclassified   ErrorKind = "unclassified"
)

// APIError is the JSON error body the API returns on failure.
type APIError struct {
	Message          string       `json:"message"                     yaml:"message"`
	Errors           []FieldError `json:"errors,omitempty"            yaml:"errors,omitempty"`
	DocumentationURL string       `json:"documentation_url,omitempty" yaml:"documentation_url,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}

	return fmt.Sprintf("%s (%d field errors)", e.Message, len(e.Errors))
}

// FieldError is one entry of the errors array on a 422 response.
type FieldError struct {
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty"`
	Field    string `json:"field,omitempty"    yaml:"field,omitempty"`
	Code     string `json:"code,omitempty"     yaml:"code,omitempty"`
	Message  string `json:"message,omitempty"  yaml:"message,omitempty"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("%s.%s: %s", e.Resource, e.Field, e.Code)
}

// ResponseError is the classified failure produced for any non-2xx
// response that the caller has not opted into observing as an extended
// result. The server-provided message is preserved verbatim.
type ResponseError struct {
	StatusCode       int
	Kind             ErrorKind
	Message          string
	Errors           []FieldError
	DocumentationURL string
	// RateLimitReset is set when Kind is ErrorKindRateLimited and the
	// server advertised when the quota window resets.
	RateLimitReset *time.Time
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}

	if e.Kind == ErrorKindRateLimited && e.RateLimitReset != nil {
		return fmt.Sprintf("%s (HTTP %d, %s, resets %s)", msg, e.StatusCode, e.Kind, e.RateLimitReset.UTC().Format(time.RFC3339))
	}

	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s (HTTP %d, %s): %s", msg, e.StatusCode, e.Kind, e.Errors[0].Error())
	}

	return fmt.Sprintf("%s (HTTP %d, %s)", msg, e.StatusCode, e.Kind)
}

// FirstFieldError returns the first field-level error or nil.
func (e *ResponseError) FirstFieldError() *FieldError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// NewResponseError builds a classified error from a response status and
// body. The body is decoded as the standard error JSON when possible;
// otherwise its text becomes the message so nothing the server said is
// lost. Rate-limit classification needs header context and is applied by
// the transport on top of this.
func NewResponseError(statusCode int, body []byte) *ResponseError {
	respErr := &ResponseError{
		StatusCode: statusCode,
		Kind:       classifyStatus(statusCode),
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		respErr.Message = apiErr.Message
		respErr.Errors = apiErr.Errors
		respErr.DocumentationURL = apiErr.DocumentationURL

		return respErr
	}

	respErr.Message = strings.TrimSpace(string(body))
	if respErr.Message == "" {
		respErr.Message = http.StatusText(statusCode)
	}

	return respErr
}

func classifyStatus(statusCode int) ErrorKind {
	switch {
	case statusCode == http.StatusUnauthorized:
		return ErrorKindAuthentication
	case statusCode == http.StatusForbidden:
		return ErrorKindForbidden
	case statusCode == http.StatusNotFound:
		return ErrorKindNotFound
	case statusCode == http.StatusConflict:
		return ErrorKindConflict
	case statusCode == http.StatusUnprocessableEntity:
		return ErrorKindValidation
	case statusCode == http.StatusTooManyRequests:
		return ErrorKindRateLimited
	case statusCode >= 500:
		return ErrorKindServerError
	default:
		return ErrorKindUnclassified
	}
}

// TransportError wraps a network-level failure (DNS, TLS, connection
// reset, timeout) after retries are exhausted. It is distinct from every
// HTTP-status classification: the request never produced a usable
// response.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure for %s: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrInvalidArgument is the root of every pre-network misuse error. All
// argument sentinels below wrap it, so callers can match the whole class
// with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// Argument sentinels. Each wraps ErrInvalidArgument.
var (
	ErrEmptyPath            = fmt.Errorf("%w: request path is empty", ErrInvalidArgument)
	ErrEmptyOwner           = fmt.Errorf("%w: repository owner is empty", ErrInvalidArgument)
	ErrEmptyRepoName        = fmt.Errorf("%w: repository name is empty", ErrInvalidArgument)
	ErrInvalidRepoPath      = fmt.Errorf("%w: repository must be owner/name, a repository URL, or a numeric id", ErrInvalidArgument)
	ErrInvalidRepositoryURL = fmt.Errorf("%w: not a recognizable repository URL", ErrInvalidArgument)
	ErrEmptyGistID          = fmt.Errorf("%w: gist id is empty", ErrInvalidArgument)
	ErrEmptyLabelName       = fmt.Errorf("%w: label name is empty", ErrInvalidArgument)
	ErrEmptySecretName      = fmt.Errorf("%w: secret name is empty", ErrInvalidArgument)
	ErrEmptyReference       = fmt.Errorf("%w: git reference is empty", ErrInvalidArgument)
	ErrEmptyTeamSlug        = fmt.Errorf("%w: team slug is empty", ErrInvalidArgument)
	ErrEmptyOrg             = fmt.Errorf("%w: organization is empty", ErrInvalidArgument)
	ErrEmptyUsername        = fmt.Errorf("%w: username is empty", ErrInvalidArgument)
	ErrEmptyContentPath     = fmt.Errorf("%w: content path is empty", ErrInvalidArgument)
	ErrEmptyCommitMessage   = fmt.Errorf("%w: commit message is empty", ErrInvalidArgument)
	ErrEmptySecretValue     = fmt.Errorf("%w: secret value is empty", ErrInvalidArgument)
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrAPIEndpointRequired  = errors.New("API endpoint is required")
	ErrNoHostInURL          = errors.New("no host specified in URL")
	ErrCircuitBreakerOpen   = errors.New("circuit breaker is open")
	ErrNoMoreItems          = errors.New("no more items")
	ErrCacheKeyNotFound     = errors.New("cache key not found")
	ErrCacheEntryExpired    = errors.New("cache entry expired")
	ErrCacheValueTooLarge   = errors.New("cache value exceeds maximum size")
	ErrCacheBackendRequired = errors.New("cache backend is required")
	ErrBatchNoOperations    = errors.New("batch contains no operations")
	ErrTokenRequired        = errors.New("access token is required")
	ErrSkipTLSOnlyInDev     = errors.New("SkipTLSVerify requires development mode")
)

// IsInvalidArgument reports whether err is a pre-network misuse error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsAuthenticationRequired reports whether err is a 401 classification.
func IsAuthenticationRequired(err error) bool {
	return kindOf(err) == ErrorKindAuthentication
}

// IsForbidden reports whether err is a non-rate-limit 403 classification.
func IsForbidden(err error) bool {
	return kindOf(err) == ErrorKindForbidden
}

// IsNotFound reports whether err is a 404 classification.
func IsNotFound(err error) bool {
	return kindOf(err) == ErrorKindNotFound
}

// IsConflict reports whether err is a 409 classification.
func IsConflict(err error) bool {
	return kindOf(err) == ErrorKindConflict
}

// IsValidationFailed reports whether err is a 422 classification.
func IsValidationFailed(err error) bool {
	return kindOf(err) == ErrorKindValidation
}

// IsRateLimited reports whether err is a rate-limit classification
// (429, or 403 with exhausted quota headers).
func IsRateLimited(err error) bool {
	return kindOf(err) == ErrorKindRateLimited
}

// IsServerError reports whether err is a 5xx classification.
func IsServerError(err error) bool {
	return kindOf(err) == ErrorKindServerError
}

// IsTransportError reports whether err is a network-level failure.
func IsTransportError(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}

// RateLimitResetTime extracts the advertised reset time from a
// rate-limit error, if any.
func RateLimitResetTime(err error) (time.Time, bool) {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) && respErr.Kind == ErrorKindRateLimited && respErr.RateLimitReset != nil {
		return *respErr.RateLimitReset, true
	}

	return time.Time{}, false
}

func kindOf(err error) ErrorKind {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.Kind
	}

	return ""
}

// Test error variables for test files to comply with err113.
var (
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrSomeError          = errors.New("some error")
)
