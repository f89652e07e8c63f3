package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
)

// TokenManager provides the token attached to outbound requests. An empty
// token means the request goes out unauthenticated.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// Request describes one API call. Path is either a resource path relative
// to the API endpoint or an absolute URL handed back by a Link header.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	// Headers are applied after the defaults, so callers can override them.
	Headers map[string]string
	// Accept overrides the default media type for preview APIs.
	Accept string
	// ExtendedStatuses lists non-2xx statuses the caller wants back as a
	// plain response instead of a classified error. The request itself is
	// unchanged; only what is surfaced differs.
	ExtendedStatuses []int
}

// allowsStatus reports whether the caller opted into seeing this status.
func (r *Request) allowsStatus(statusCode int) bool {
	for _, status := range r.ExtendedStatuses {
		if status == statusCode {
			return true
		}
	}

	return false
}

// Response is the raw response envelope: status, headers, undecoded body,
// and the rel="next" pagination target when the server advertised one.
type Response struct {
	StatusCode  int
	Headers     http.Header
	Body        []byte
	NextPageURL string
}

// Client executes API requests with authentication, rate-limit aware
// retries, and error classification. It is safe for concurrent use.
type Client struct {
	baseURL          string
	httpClient       *retryablehttp.Client
	tokenManager     TokenManager
	interceptors     *ghapi.InterceptorChain
	logger           ghapi.Logger
	userAgent        string
	debug            bool
	rateLimitMaxWait time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger ghapi.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes the transient-failure retry policy.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithRateLimitMaxWait bounds how long a rate-limited request sleeps for
// the advertised reset before giving up with a RateLimited error.
func WithRateLimitMaxWait(maxWait time.Duration) Option {
	return func(c *Client) {
		c.rateLimitMaxWait = maxWait
	}
}

// WithHTTPTimeout sets the per-attempt HTTP timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithSkipTLSVerify disables certificate verification. Callers gate this
// behind explicit development-mode checks before it reaches the client.
func WithSkipTLSVerify(skip bool) Option {
	return func(c *Client) {
		if skip {
			c.httpClient.HTTPClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: skip}, // #nosec G402 -- gated by the caller's development-mode check
			}
		}
	}
}

// WithInterceptorChain installs an interceptor chain run around every
// request, used for caching, metrics, and client-side throttling.
func WithInterceptorChain(chain *ghapi.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a client for the given API endpoint.
func NewClient(baseURL string, tokenManager TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	// Keep the final response so non-2xx statuses can be classified after
	// retries are exhausted.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:          strings.TrimSuffix(baseURL, "/"),
		httpClient:       retryClient,
		tokenManager:     tokenManager,
		userAgent:        constants.DefaultUserAgent,
		rateLimitMaxWait: constants.DefaultRateLimitMaxWait,
	}

	retryClient.CheckRetry = client.checkRetry
	retryClient.Backoff = client.backoff

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do executes the request and returns the response envelope. Non-2xx
// statuses produce a classified error alongside the response, except for
// statuses the request opted into via ExtendedStatuses.
//
// A 304 arises only from conditional requests. When the conditional-request
// interceptor attached If-None-Match, the revalidated cached body is served
// as a 200; a caller that sets the header itself gets the 304 back with an
// empty body and must check StatusCode before decoding.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	var bodyBytes []byte
	if req.Body != nil {
		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	intercepted, resp, err := c.runRequestInterceptors(ctx, req, bodyBytes)
	if err != nil || resp != nil {
		return resp, err
	}

	httpReq, err := c.buildHTTPRequest(ctx, req, fullURL, bodyBytes, intercepted)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil && httpResp == nil {
		return nil, &ghapi.TransportError{URL: fullURL, Err: err}
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ghapi.TransportError{URL: fullURL, Err: err}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": httpResp.StatusCode,
			"url":         fullURL,
		})
	}

	response := &Response{
		StatusCode:  httpResp.StatusCode,
		Headers:     httpResp.Header,
		Body:        body,
		NextPageURL: parseLinkNext(httpResp.Header.Get(constants.HeaderLink)),
	}

	// A 304 answers a conditional request; serve the revalidated body.
	if response.StatusCode == http.StatusNotModified && intercepted != nil {
		if stale, ok := intercepted.Metadata[ghapi.StaleBodyMetadataKey].([]byte); ok {
			response.StatusCode = http.StatusOK
			response.Body = stale
		}
	}

	c.runResponseInterceptors(ctx, intercepted, response)

	if response.StatusCode >= http.StatusBadRequest && !req.allowsStatus(response.StatusCode) {
		return response, classifyResponse(response)
	}

	return response, nil
}

// Get executes a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post executes a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put executes a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch executes a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete executes a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// FetchPage fetches one page of a list endpoint. The path is a resource
// path on the first call and the absolute Link target on follow-ups.
func (c *Client) FetchPage(ctx context.Context, path string, params *ghapi.QueryParams) (*ghapi.Page, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	return &ghapi.Page{Body: resp.Body, NextURL: resp.NextPageURL}, nil
}

// buildURL resolves the request path against the API endpoint and encodes
// the query. Absolute paths pass through untouched so Link targets keep
// the server-provided cursor.
func (c *Client) buildURL(req *Request) (string, error) {
	if req.Path == "" {
		return "", ghapi.ErrEmptyPath
	}

	fullURL := req.Path
	if !strings.HasPrefix(fullURL, "http://") && !strings.HasPrefix(fullURL, "https://") {
		path := req.Path
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}

		for strings.Contains(path, "//") {
			path = strings.ReplaceAll(path, "//", "/")
		}

		fullURL = c.baseURL + path
	}

	if len(req.Query) > 0 {
		separator := "?"
		if strings.Contains(fullURL, "?") {
			separator = "&"
		}

		fullURL += separator + req.Query.Encode()
	}

	return fullURL, nil
}

// buildHTTPRequest assembles the outbound request with default headers,
// caller overrides, interceptor-added headers, and authentication.
func (c *Client) buildHTTPRequest(ctx context.Context, req *Request, fullURL string, bodyBytes []byte, intercepted *ghapi.Request) (*retryablehttp.Request, error) {
	var rawBody interface{}
	if len(bodyBytes) > 0 {
		rawBody = bodyBytes
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	accept := req.Accept
	if accept == "" {
		accept = constants.AcceptV3
	}

	httpReq.Header.Set("Accept", accept)
	httpReq.Header.Set(constants.HeaderAPIVersion, constants.APIVersion)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if len(bodyBytes) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if intercepted != nil {
		for key, values := range intercepted.Headers {
			for _, value := range values {
				httpReq.Header.Set(key, value)
			}
		}
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get authentication token: %w", err)
		}

		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return httpReq, nil
}

// runRequestInterceptors executes the request side of the interceptor
// chain. A non-nil Response means an interceptor served the request from
// cache and the network round trip is skipped.
func (c *Client) runRequestInterceptors(ctx context.Context, req *Request, bodyBytes []byte) (*ghapi.Request, *Response, error) {
	if c.interceptors == nil {
		return nil, nil, nil
	}

	intercepted := &ghapi.Request{
		Method:  req.Method,
		Path:    req.Path,
		Query:   req.Query.Encode(),
		Headers: make(http.Header),
		Body:    bodyBytes,
	}

	if err := c.interceptors.ExecuteRequestInterceptors(ctx, intercepted); err != nil {
		return nil, nil, err
	}

	if cached, ok := intercepted.Metadata[ghapi.CachedBodyMetadataKey].([]byte); ok {
		return intercepted, &Response{
			StatusCode: http.StatusOK,
			Headers:    make(http.Header),
			Body:       cached,
		}, nil
	}

	return intercepted, nil, nil
}

// runResponseInterceptors executes the response side of the chain.
// Interceptor failures never fail the request itself.
func (c *Client) runResponseInterceptors(ctx context.Context, intercepted *ghapi.Request, response *Response) {
	if c.interceptors == nil || intercepted == nil {
		return
	}

	interceptedResp := &ghapi.Response{
		StatusCode: response.StatusCode,
		Headers:    response.Headers,
		Body:       response.Body,
	}

	if err := c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, interceptedResp); err != nil && c.logger != nil {
		c.logger.Warn("response interceptor failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// checkRetry implements the retry policy: rate-limited responses retry
// when the advertised reset fits the wait bound, transient transport
// failures and 5xx responses follow the default exponential policy, and
// everything else propagates immediately.
func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err == nil && resp != nil && isRateLimitStatus(resp.StatusCode) {
		if resetAt, ok := rateLimitResetAt(resp.StatusCode, resp.Header); ok {
			wait := time.Until(resetAt) + constants.RateLimitResetBuffer
			if wait > c.rateLimitMaxWait {
				// Too far out to sleep on; surface as a RateLimited error.
				return false, nil
			}

			return true, nil
		}

		if resp.StatusCode == http.StatusForbidden {
			// A plain 403 is an authorization failure, not a rate limit.
			return false, nil
		}
	}

	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// backoff waits until the advertised rate-limit reset when one applies,
// falling back to exponential backoff for transient failures.
func (c *Client) backoff(waitMin, waitMax time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && isRateLimitStatus(resp.StatusCode) {
		if resetAt, ok := rateLimitResetAt(resp.StatusCode, resp.Header); ok {
			wait := time.Until(resetAt) + constants.RateLimitResetBuffer
			if wait > 0 {
				return wait
			}

			return constants.RateLimitResetBuffer
		}
	}

	return retryablehttp.DefaultBackoff(waitMin, waitMax, attemptNum, resp)
}

func isRateLimitStatus(statusCode int) bool {
	return statusCode == http.StatusForbidden || statusCode == http.StatusTooManyRequests
}

// rateLimitResetAt extracts when the quota window reopens. Retry-After
// marks a secondary limit on either status; a primary limit needs the
// remaining counter at zero before a 403 is treated as rate limiting,
// while a 429 trusts the reset header alone.
func rateLimitResetAt(statusCode int, headers http.Header) (time.Time, bool) {
	if retryAfter := headers.Get(constants.HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			return time.Now().Add(time.Duration(seconds) * time.Second), true
		}
	}

	reset := headers.Get(constants.HeaderRateLimitReset)
	if reset == "" {
		return time.Time{}, false
	}

	if statusCode == http.StatusForbidden && headers.Get(constants.HeaderRateLimitRemaining) != "0" {
		return time.Time{}, false
	}

	epoch, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	return time.Unix(epoch, 0), true
}

// classifyResponse turns a non-2xx response into the typed error for its
// status, upgrading 403s to RateLimited when the headers prove quota
// exhaustion and attaching the reset time.
func classifyResponse(resp *Response) error {
	respErr := ghapi.NewResponseError(resp.StatusCode, resp.Body)

	if isRateLimitStatus(resp.StatusCode) {
		if resetAt, ok := rateLimitResetAt(resp.StatusCode, resp.Headers); ok {
			utc := resetAt.UTC()
			respErr.Kind = ghapi.ErrorKindRateLimited
			respErr.RateLimitReset = &utc
		}
	}

	return respErr
}

// parseLinkNext extracts the rel="next" target from a Link header.
// GitHub formats the header as:
//
//	<https://api.github.com/resource?page=2>; rel="next", <...>; rel="last"
func parseLinkNext(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}

	for _, part := range strings.Split(linkHeader, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}

		target := strings.Trim(strings.TrimSpace(section[0]), "<>")

		for _, param := range section[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return target
			}
		}
	}

	return ""
}
