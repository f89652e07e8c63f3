package ghapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/nats-io/nats.go"
)

// CacheEntry represents a cached API response.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry's TTL has passed.
func (e *CacheEntry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Cache is the storage backend contract for cached responses.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheOptions holds common options applied to any cache backend.
type CacheOptions struct {
	// TTL is the default time-to-live for entries stored through a manager.
	TTL time.Duration
	// MaxSize bounds the entry count for backends that support it.
	MaxSize int
	// EnableETags stores response ETags so conditional requests can be issued.
	EnableETags bool
}

// DefaultCacheOptions returns the default cache options.
func DefaultCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:         constants.DefaultCacheTTL,
		MaxSize:     constants.DefaultCacheSize,
		EnableETags: true,
	}
}

// MemoryCache is an in-memory cache with bounded size and TTL eviction.
type MemoryCache struct {
	mu       sync.RWMutex
	entries  map[string]*CacheEntry
	maxSize  int
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a new in-memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// NewMemoryCacheWithJanitor creates an in-memory cache that sweeps expired
// entries every interval in the background. Close stops the sweep.
func NewMemoryCacheWithJanitor(maxSize int, interval time.Duration) *MemoryCache {
	cache := NewMemoryCache(maxSize)
	if interval <= 0 {
		return cache
	}

	cache.stop = make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cache.Cleanup()
			case <-cache.stop:
				return
			}
		}
	}()

	return cache
}

// Close stops the background sweep if one was started.
func (c *MemoryCache) Close() {
	c.stopOnce.Do(func() {
		if c.stop != nil {
			close(c.stop)
		}
	})
}

// Get retrieves an entry, failing for missing or expired keys. Expired
// entries are handed back alongside the error so conditional requests can
// revalidate them instead of refetching from scratch.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if entry.Expired() {
		return entry, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores an entry, evicting the entry closest to expiry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if len(entry.Data) > constants.MaxCacheValueSize {
		return fmt.Errorf("%w: %d bytes", ErrCacheValueTooLarge, len(entry.Data))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry

	return nil
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)

	return nil
}

// Has reports whether a live entry exists for the key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]

	return ok && !entry.Expired()
}

// Cleanup removes all expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.Expired() {
			delete(c.entries, key)
		}
	}
}

// evictOldest drops the entry closest to expiry. Caller holds the lock.
func (c *MemoryCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
	)

	for key, entry := range c.entries {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// NATSKVConfig configures the NATS JetStream key-value cache backend.
type NATSKVConfig struct {
	// URL is the NATS server URL (e.g. "nats://localhost:4222").
	URL string
	// Bucket is the KV bucket name; created if it does not exist.
	Bucket string
	// TTL applied at the bucket level when the bucket is created.
	TTL time.Duration
	// Credentials is an optional path to a NATS credentials file.
	Credentials string
}

// NATSKVCache stores cache entries in a NATS JetStream key-value bucket so
// multiple processes can share one response cache.
type NATSKVCache struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

// NewNATSKVCache connects to NATS and binds (or creates) the configured bucket.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	opts := []nats.Option{nats.Name("ghapi-cache")}
	if config.Credentials != "" {
		opts = append(opts, nats.UserCredentials(config.Credentials))
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("obtaining JetStream context: %w", err)
	}

	kv, err := js.KeyValue(config.Bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket: config.Bucket,
			TTL:    config.TTL,
		})
		if err != nil {
			conn.Close()

			return nil, fmt.Errorf("creating KV bucket %q: %w", config.Bucket, err)
		}
	}

	return &NATSKVCache{conn: conn, kv: kv}, nil
}

// encodeKey maps arbitrary cache keys onto the NATS KV key alphabet.
func encodeKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

// Get retrieves an entry from the bucket.
func (c *NATSKVCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.kv.Get(encodeKey(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	var entry CacheEntry
	if err := json.Unmarshal(kvEntry.Value(), &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	if entry.Expired() {
		_ = c.kv.Delete(encodeKey(key))

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return &entry, nil
}

// Set stores an entry in the bucket.
func (c *NATSKVCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	if _, err := c.kv.Put(encodeKey(key), data); err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}

	return nil
}

// Delete removes an entry from the bucket.
func (c *NATSKVCache) Delete(ctx context.Context, key string) error {
	if err := c.kv.Delete(encodeKey(key)); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}

	return nil
}

// Clear purges every key in the bucket.
func (c *NATSKVCache) Clear(ctx context.Context) error {
	keys, err := c.kv.Keys()
	if err != nil {
		// An empty bucket reports no keys; treat that as cleared.
		return nil
	}

	for _, key := range keys {
		if err := c.kv.Purge(key); err != nil {
			return fmt.Errorf("purging cache key: %w", err)
		}
	}

	return nil
}

// Has reports whether a live entry exists for the key.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close drains the underlying NATS connection.
func (c *NATSKVCache) Close() {
	c.conn.Close()
}

// CacheStats tracks cache effectiveness counters.
type CacheStats struct {
	Hits   int64 `json:"hits"   yaml:"hits"`
	Misses int64 `json:"misses" yaml:"misses"`
	Sets   int64 `json:"sets"   yaml:"sets"`
}

// GetHitRate returns the fraction of lookups served from cache.
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CacheManager coordinates a cache backend with key derivation and stats.
type CacheManager struct {
	cache  Cache
	logger Logger

	mu    sync.Mutex
	stats CacheStats
}

// NewCacheManager creates a cache manager around a backend. The logger is
// optional.
func NewCacheManager(cache Cache, logger Logger) *CacheManager {
	return &CacheManager{
		cache:  cache,
		logger: logger,
	}
}

// GetCacheKey derives a deterministic cache key from method, path and params.
func (m *CacheManager) GetCacheKey(method, path string, params map[string]string) string {
	if len(params) == 0 {
		return method + ":" + path
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	return method + ":" + path + ":" + strings.Join(pairs, "&")
}

// Get returns cached data for the key, counting a hit or a miss.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	if m.cache == nil {
		m.countMiss()

		return nil, ErrCacheBackendRequired
	}

	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.countMiss()

		return nil, err
	}

	m.countHit()

	if m.logger != nil {
		m.logger.Debug("cache hit", map[string]interface{}{"key": key})
	}

	return entry.Data, nil
}

// GetEntry returns the full cached entry, including the ETag, without
// touching the hit/miss counters. Used by conditional request plumbing.
func (m *CacheManager) GetEntry(ctx context.Context, key string) (*CacheEntry, error) {
	if m.cache == nil {
		return nil, ErrCacheBackendRequired
	}

	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		// A stale entry still carries a usable ETag for revalidation.
		if entry != nil && errors.Is(err, ErrCacheEntryExpired) {
			return entry, nil
		}

		return nil, err
	}

	return entry, nil
}

// Set stores data under the key with the given TTL.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores data plus the response ETag under the key.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	if m.cache == nil {
		return ErrCacheBackendRequired
	}

	entry := &CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
		ETag:      etag,
	}

	if err := m.cache.Set(ctx, key, entry); err != nil {
		return err
	}

	m.mu.Lock()
	m.stats.Sets++
	m.mu.Unlock()

	return nil
}

// Delete removes the key from the backend.
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	if m.cache == nil {
		return ErrCacheBackendRequired
	}

	return m.cache.Delete(ctx, key)
}

// Clear empties the backend.
func (m *CacheManager) Clear(ctx context.Context) error {
	if m.cache == nil {
		return ErrCacheBackendRequired
	}

	return m.cache.Clear(ctx)
}

// GetStats returns a snapshot of the cache counters.
func (m *CacheManager) GetStats() *CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.stats

	return &snapshot
}

func (m *CacheManager) countHit() {
	m.mu.Lock()
	m.stats.Hits++
	m.mu.Unlock()
}

func (m *CacheManager) countMiss() {
	m.mu.Lock()
	m.stats.Misses++
	m.mu.Unlock()
}

// CachingPolicy decides which requests are eligible for caching.
type CachingPolicy struct {
	// CacheGET enables caching of GET responses.
	CacheGET bool
	// CachePOST enables caching of POST responses.
	CachePOST bool
	// CacheErrors enables caching of non-2xx responses.
	CacheErrors bool
	// IncludePaths, when non-empty, restricts caching to matching path prefixes.
	IncludePaths []string
	// ExcludePaths lists path prefixes that are never cached.
	ExcludePaths []string
}

// DefaultCachingPolicy caches successful GET responses for everything except
// volatile endpoints.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET:    true,
		CachePOST:   false,
		CacheErrors: false,
		ExcludePaths: []string{
			"/rate_limit",
			"/events",
			"/notifications",
		},
	}
}

// ShouldCache reports whether a response for method/path/status is cacheable
// under this policy.
func (p *CachingPolicy) ShouldCache(method, path string, statusCode int) bool {
	switch method {
	case http.MethodGet:
		if !p.CacheGET {
			return false
		}
	case http.MethodPost:
		if !p.CachePOST {
			return false
		}
	default:
		return false
	}

	if !p.CacheErrors && (statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices) {
		return false
	}

	if len(p.IncludePaths) > 0 {
		return hasPathPrefix(p.IncludePaths, path)
	}

	return !hasPathPrefix(p.ExcludePaths, path)
}

func hasPathPrefix(prefixes []string, path string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
