package ghapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// Request represents an HTTP request that can be intercepted.
type Request struct {
	Method string
	Path   string
	// Query is the encoded query string, without the leading "?". Cache
	// interceptors key on it so distinct queries never share an entry.
	Query    string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response represents an HTTP response that can be intercepted.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor runs before a request is sent. Returning an error
// aborts the request.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor runs after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain holds request and response interceptors and runs them in
// registration order.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor appends a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor appends a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs every request interceptor in order,
// stopping at the first failure.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for i, interceptor := range c.requestInterceptors {
		if err := interceptor(ctx, req); err != nil {
			return fmt.Errorf("request interceptor %d failed: %w", i, err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs every response interceptor in order,
// stopping at the first failure.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for i, interceptor := range c.responseInterceptors {
		if err := interceptor(ctx, req, resp); err != nil {
			return fmt.Errorf("response interceptor %d failed: %w", i, err)
		}
	}

	return nil
}

func ensureHeaders(req *Request) http.Header {
	if req.Headers == nil {
		req.Headers = make(http.Header)
	}

	return req.Headers
}

// LoggingInterceptor logs each outgoing request at debug level.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses, including the remaining rate
// limit quota when the server reports it. Failed exchanges log at error
// level.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if remaining := resp.Headers.Get(constants.HeaderRateLimitRemaining); remaining != "" {
			fields["rate_remaining"] = remaining
		}

		if resp.Error != nil {
			logger.Error("API Response Error", fields)

			return nil
		}

		logger.Debug("API Response", fields)

		return nil
	}
}

// tokenBucket is a continuously refilling rate limiter. Tokens accrue from
// elapsed wall time under a mutex, so it needs no background goroutine.
type tokenBucket struct {
	mu       sync.Mutex
	rate     float64 // tokens per second
	capacity float64
	tokens   float64
	last     time.Time
}

func newTokenBucket(perSecond int) *tokenBucket {
	if perSecond < 1 {
		perSecond = 1
	}

	return &tokenBucket{
		rate:     float64(perSecond),
		capacity: float64(perSecond),
		tokens:   float64(perSecond),
		last:     time.Now(),
	}
}

// take consumes a token if one is available, otherwise it reports how long
// until the next token accrues.
func (b *tokenBucket) take() (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.last).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}

	b.last = now

	if b.tokens >= 1 {
		b.tokens--

		return 0, true
	}

	shortfall := (1 - b.tokens) / b.rate

	return time.Duration(shortfall * float64(time.Second)), false
}

func (b *tokenBucket) wait(ctx context.Context) error {
	for {
		delay, ok := b.take()
		if ok {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		}
	}
}

// RateLimitInterceptor throttles outgoing requests on the client side so
// bursts do not burn through the server-side quota. When the bucket is
// drained the interceptor blocks until a token accrues or the context ends.
func RateLimitInterceptor(requestsPerSecond int) RequestInterceptor {
	bucket := newTokenBucket(requestsPerSecond)

	return func(ctx context.Context, req *Request) error {
		return bucket.wait(ctx)
	}
}

// RetryConfig tunes the retry marker interceptor.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the initial try.
	MaxRetries int
	// RetryDelay is the base delay between retries (may be jittered/backed off).
	RetryDelay time.Duration
	// MaxDelay caps the maximum backoff delay between retries.
	MaxDelay time.Duration
	// RetryOnCodes lists HTTP status codes that should trigger a retry
	// (e.g., 429, 500, 502, 503, 504).
	RetryOnCodes []int
}

// DefaultRetryConfig returns default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:   constants.LowRetryMax,
		RetryDelay:   1 * time.Second,
		MaxDelay:     constants.ExtendedRetryWaitMax,
		RetryOnCodes: []int{429, 500, 502, 503, 504},
	}
}

// RetryMarkerHeader flags a response as retryable for transports that run
// their own retry loop.
const RetryMarkerHeader = "X-Should-Retry"

// RetryResponseInterceptor marks responses that warrant a retry. The retry
// itself belongs to the transport; this interceptor only classifies.
func RetryResponseInterceptor(config *RetryConfig) ResponseInterceptor {
	if config == nil {
		config = DefaultRetryConfig()
	}

	retryable := make(map[int]struct{}, len(config.RetryOnCodes))
	for _, code := range config.RetryOnCodes {
		retryable[code] = struct{}{}
	}

	return func(ctx context.Context, req *Request, resp *Response) error {
		_, marked := retryable[resp.StatusCode]

		// Secondary rate limits answer 403 with Retry-After; plain 403s are
		// permission errors and must not be retried.
		if !marked && resp.StatusCode == http.StatusForbidden {
			marked = resp.Headers.Get(constants.HeaderRetryAfter) != ""
		}

		if !marked {
			return nil
		}

		if resp.Headers == nil {
			resp.Headers = make(http.Header)
		}

		resp.Headers.Set(RetryMarkerHeader, "true")

		return nil
	}
}

// AuthenticationInterceptor resolves a token per request and attaches it as
// a bearer credential.
func AuthenticationInterceptor(tokenProvider func(context.Context) (string, error)) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		token, err := tokenProvider(ctx)
		if err != nil {
			return fmt.Errorf("failed to get authentication token: %w", err)
		}

		ensureHeaders(req).Set("Authorization", "Bearer "+token)

		return nil
	}
}

// HeaderInterceptor adds fixed headers to every request.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		h := ensureHeaders(req)
		for key, value := range headers {
			h.Set(key, value)
		}

		return nil
	}
}

// UserAgentInterceptor sets a default User-Agent without clobbering one the
// caller chose. GitHub rejects requests without one.
func UserAgentInterceptor(userAgent string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		h := ensureHeaders(req)
		if h.Get("User-Agent") == "" {
			h.Set("User-Agent", userAgent)
		}

		return nil
	}
}

// DeadlineGuardInterceptor rejects requests whose context has less than
// minimum time remaining, failing fast instead of timing out mid-flight.
// Contexts without a deadline always pass.
func DeadlineGuardInterceptor(minimum time.Duration) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		deadline, ok := ctx.Deadline()
		if !ok {
			return nil
		}

		if remaining := time.Until(deadline); remaining < minimum {
			return fmt.Errorf("%s %s needs %s but the context allows %s: %w",
				req.Method, req.Path, minimum, remaining, context.DeadlineExceeded)
		}

		return nil
	}
}

// requestStartKey carries the request start time between the metrics
// request and response interceptors.
const requestStartKey = "request_start"

// Metrics aggregates per-endpoint call statistics.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector accumulates per-endpoint metrics. It is safe for
// concurrent use.
type MetricsCollector struct {
	mu       sync.Mutex
	metrics  map[string]*Metrics
	onChange func(endpoint string, metrics *Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange registers a callback invoked after each recorded exchange.
// The callback receives a snapshot and may safely call back into the
// collector.
func (c *MetricsCollector) SetOnChange(fn func(endpoint string, metrics *Metrics)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onChange = fn
}

// GetMetrics returns a snapshot of the metrics for an endpoint, or nil when
// the endpoint has never been seen.
func (c *MetricsCollector) GetMetrics(endpoint string) *Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.metrics[endpoint]
	if !ok {
		return nil
	}

	snapshot := *m

	return &snapshot
}

func (c *MetricsCollector) record(endpoint string, latency time.Duration, failed bool) {
	c.mu.Lock()

	m, ok := c.metrics[endpoint]
	if !ok {
		m = &Metrics{}
		c.metrics[endpoint] = m
	}

	m.TotalRequests++
	m.LastRequestTime = time.Now()
	m.TotalLatency += latency
	m.AverageLatency = m.TotalLatency / time.Duration(m.TotalRequests)

	if failed {
		m.TotalErrors++
	}

	snapshot := *m
	onChange := c.onChange
	c.mu.Unlock()

	// Notify outside the lock so the callback can read the collector.
	if onChange != nil {
		onChange(endpoint, &snapshot)
	}
}

// MetricsRequestInterceptor stamps the request with its start time.
func MetricsRequestInterceptor(collector *MetricsCollector) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[requestStartKey] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor records the outcome of each exchange, keyed by
// method and path.
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		var latency time.Duration
		if start, ok := req.Metadata[requestStartKey].(time.Time); ok {
			latency = time.Since(start)
		}

		failed := resp.Error != nil || resp.StatusCode >= http.StatusBadRequest
		collector.record(req.Method+" "+req.Path, latency, failed)

		return nil
	}
}

// CircuitBreakerConfig tunes the circuit breaker interceptors.
type CircuitBreakerConfig struct {
	Threshold        int           // failures before the circuit opens
	Timeout          time.Duration // how long the circuit stays open
	SuccessThreshold int           // half-open successes needed to close
}

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

// CircuitBreaker stops issuing requests after repeated failures and probes
// the server again once its timeout elapses. It is safe for concurrent use.
type CircuitBreaker struct {
	mu          sync.Mutex
	config      *CircuitBreakerConfig
	state       circuitState
	failures    int
	successes   int
	lastFailure time.Time
}

// NewCircuitBreaker creates a circuit breaker. A nil config selects the
// package defaults.
func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = &CircuitBreakerConfig{
			Threshold:        constants.CircuitBreakerThreshold,
			Timeout:          constants.CircuitBreakerTimeout,
			SuccessThreshold: constants.CircuitBreakerSuccessThreshold,
		}
	}

	return &CircuitBreaker{config: config}
}

// allow reports whether a request may proceed, moving an expired open
// circuit to half-open.
func (b *CircuitBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != circuitOpen {
		return nil
	}

	if time.Since(b.lastFailure) <= b.config.Timeout {
		return ErrCircuitBreakerOpen
	}

	b.state = circuitHalfOpen
	b.successes = 0

	return nil
}

// observe feeds an exchange outcome into the state machine.
func (b *CircuitBreaker) observe(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if failed {
		b.failures++
		b.lastFailure = time.Now()

		// A half-open probe failure reopens immediately.
		if b.state == circuitHalfOpen || b.failures >= b.config.Threshold {
			b.state = circuitOpen
		}

		return
	}

	switch b.state {
	case circuitHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.state = circuitClosed
			b.failures = 0
		}
	case circuitClosed:
		b.failures = 0
	case circuitOpen:
	}
}

// CircuitBreakerRequestInterceptor fails fast while the circuit is open.
func CircuitBreakerRequestInterceptor(breaker *CircuitBreaker) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		return breaker.allow()
	}
}

// CircuitBreakerResponseInterceptor feeds exchange outcomes to the breaker.
// Transport errors and 5xx responses count as failures.
func CircuitBreakerResponseInterceptor(breaker *CircuitBreaker) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		breaker.observe(resp.Error != nil || resp.StatusCode >= http.StatusInternalServerError)

		return nil
	}
}
