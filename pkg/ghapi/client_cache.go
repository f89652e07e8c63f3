package ghapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
)

// CachedBodyMetadataKey is the request metadata key under which the cache
// request interceptor places a cached response body. The HTTP client checks
// it before going to the network.
const CachedBodyMetadataKey = "cached_body"

// StaleBodyMetadataKey is the request metadata key under which the
// conditional-request interceptor places the stale cached body. When the
// server answers 304 the HTTP client serves this body instead.
const StaleBodyMetadataKey = "stale_body"

// Static errors for err113 compliance.
var (
	ErrFetcherRequired = errors.New("page fetcher required to warm cache")
)

// cacheKeyFor derives the cache key for an intercepted request, folding the
// encoded query into the path. Two GETs to one path with different queries
// are different resources and must never share an entry.
func cacheKeyFor(manager *CacheManager, method string, req *Request) string {
	path := req.Path
	if req.Query != "" {
		path += "?" + req.Query
	}

	return manager.GetCacheKey(method, path, nil)
}

// CacheInterceptor returns a request/response interceptor pair that serves
// GET responses from the cache and stores cacheable responses into it.
func CacheInterceptor(manager *CacheManager, policy *CachingPolicy) (RequestInterceptor, ResponseInterceptor) {
	requestInterceptor := func(ctx context.Context, req *Request) error {
		if req.Method != http.MethodGet || !policy.CacheGET {
			return nil
		}

		key := cacheKeyFor(manager, req.Method, req)

		data, err := manager.Get(ctx, key)
		if err != nil {
			// Miss; the request proceeds to the network.
			return nil
		}

		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[CachedBodyMetadataKey] = data

		return nil
	}

	responseInterceptor := cacheStoreInterceptor(manager, policy, func(string) time.Duration {
		return constants.DefaultCacheTTL
	})

	return requestInterceptor, responseInterceptor
}

// cacheStoreInterceptor stores cacheable responses with a per-path TTL.
func cacheStoreInterceptor(manager *CacheManager, policy *CachingPolicy, ttlFor func(path string) time.Duration) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		if resp.Error != nil {
			return nil
		}

		if !policy.ShouldCache(req.Method, req.Path, resp.StatusCode) {
			return nil
		}

		key := cacheKeyFor(manager, req.Method, req)
		etag := resp.Headers.Get("ETag")

		if err := manager.SetWithETag(ctx, key, resp.Body, etag, ttlFor(req.Path)); err != nil {
			// Failing to cache must never fail the request.
			return nil
		}

		return nil
	}
}

// ConditionalRequestInterceptor attaches If-None-Match from the cached ETag
// so GitHub can answer 304 without charging the rate limit. The cached body
// is stashed in the request metadata so the client can serve it on 304.
func ConditionalRequestInterceptor(manager *CacheManager) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Method != http.MethodGet {
			return nil
		}

		key := cacheKeyFor(manager, req.Method, req)

		entry, err := manager.GetEntry(ctx, key)
		if err != nil || entry.ETag == "" {
			return nil
		}

		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		req.Headers.Set("If-None-Match", entry.ETag)

		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[StaleBodyMetadataKey] = entry.Data

		return nil
	}
}

// CacheInvalidationInterceptor drops cached GET entries for a resource and
// its parent collection after a successful mutation.
func CacheInvalidationInterceptor(manager *CacheManager) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		switch req.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return nil
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return nil
		}

		_ = manager.Delete(ctx, cacheKeyFor(manager, http.MethodGet, req))

		if idx := strings.LastIndex(req.Path, "/"); idx > 0 {
			_ = manager.Delete(ctx, manager.GetCacheKey(http.MethodGet, req.Path[:idx], nil))
		}

		return nil
	}
}

// SmartCacheConfig bundles the cache-related interceptors behind feature
// toggles plus per-resource TTL overrides.
type SmartCacheConfig struct {
	EnableSmartInvalidation   bool
	EnableConditionalRequests bool
	EnableMetrics             bool
	ResourceTTLs              map[string]time.Duration
}

// DefaultSmartCacheConfig returns the default smart cache configuration.
func DefaultSmartCacheConfig() *SmartCacheConfig {
	return &SmartCacheConfig{
		EnableSmartInvalidation:   true,
		EnableConditionalRequests: true,
		EnableMetrics:             true,
		ResourceTTLs: map[string]time.Duration{
			"/repos":      constants.RepositoryCacheTTL,
			"/users":      constants.RepositoryCacheTTL,
			"/orgs":       constants.RepositoryCacheTTL,
			"/gists":      constants.IssuesCacheTTL,
			"/rate_limit": constants.RateLimitCacheTTL,
		},
	}
}

// TTLFor returns the TTL for a path, preferring the longest configured prefix.
func (c *SmartCacheConfig) TTLFor(path string) time.Duration {
	ttl := constants.DefaultCacheTTL
	longest := 0

	for prefix, resourceTTL := range c.ResourceTTLs {
		if strings.HasPrefix(path, prefix) && len(prefix) > longest {
			ttl = resourceTTL
			longest = len(prefix)
		}
	}

	return ttl
}

// ConfigureSmartCache wires the cache interceptors into a chain. It returns
// the metrics collector when metrics are enabled, nil otherwise.
func ConfigureSmartCache(chain *InterceptorChain, manager *CacheManager, config *SmartCacheConfig) *MetricsCollector {
	if config == nil {
		config = DefaultSmartCacheConfig()
	}

	policy := DefaultCachingPolicy()

	requestInterceptor, _ := CacheInterceptor(manager, policy)
	chain.AddRequestInterceptor(requestInterceptor)
	chain.AddResponseInterceptor(cacheStoreInterceptor(manager, policy, config.TTLFor))

	if config.EnableConditionalRequests {
		chain.AddRequestInterceptor(ConditionalRequestInterceptor(manager))
	}

	if config.EnableSmartInvalidation {
		chain.AddResponseInterceptor(CacheInvalidationInterceptor(manager))
	}

	var collector *MetricsCollector

	if config.EnableMetrics {
		collector = NewMetricsCollector()
		chain.AddRequestInterceptor(MetricsRequestInterceptor(collector))
		chain.AddResponseInterceptor(MetricsResponseInterceptor(collector))
	}

	return collector
}

// CacheWarmer pre-populates the cache for frequently accessed endpoints.
type CacheWarmer struct {
	fetcher PageFetcher
	manager *CacheManager
}

// NewCacheWarmer creates a cache warmer around a page fetcher.
func NewCacheWarmer(fetcher PageFetcher, manager *CacheManager) *CacheWarmer {
	return &CacheWarmer{
		fetcher: fetcher,
		manager: manager,
	}
}

// Warm fetches each path once and stores the first page of the response.
func (w *CacheWarmer) Warm(ctx context.Context, paths []string) error {
	if w.fetcher == nil {
		return ErrFetcherRequired
	}

	for _, path := range paths {
		page, err := w.fetcher.FetchPage(ctx, path, nil)
		if err != nil {
			return fmt.Errorf("warming %s: %w", path, err)
		}

		key := w.manager.GetCacheKey(http.MethodGet, path, nil)
		if err := w.manager.Set(ctx, key, page.Body, constants.DefaultCacheSetTTL); err != nil {
			return fmt.Errorf("storing warmed entry for %s: %w", path, err)
		}
	}

	return nil
}
