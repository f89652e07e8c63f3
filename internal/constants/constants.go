package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API endpoint and media types.
const (
	// DefaultAPIEndpoint is the public GitHub REST API endpoint.
	DefaultAPIEndpoint = "https://api.github.com"

	// AcceptV3 is the stable v3 media type sent on every request unless overridden.
	AcceptV3 = "application/vnd.github.v3+json"

	// AcceptProjectsPreview enables the classic projects preview API.
	AcceptProjectsPreview = "application/vnd.github.inertia-preview+json"

	// AcceptReactionsPreview enables the reactions preview API.
	AcceptReactionsPreview = "application/vnd.github.squirrel-girl-preview+json"

	// HeaderAPIVersion names the version header sent on every request.
	HeaderAPIVersion = "X-GitHub-Api-Version"

	// APIVersion is the REST API version this client speaks.
	APIVersion = "2022-11-28"

	// DefaultUserAgent identifies the client to the API.
	DefaultUserAgent = "ghapi-client/1.0"
)

// Rate limit headers and tuning.
const (
	// HeaderRateLimitLimit carries the request quota for the current window.
	HeaderRateLimitLimit = "X-RateLimit-Limit"

	// HeaderRateLimitRemaining carries the requests left in the current window.
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"

	// HeaderRateLimitReset carries the epoch second the window resets at.
	HeaderRateLimitReset = "X-RateLimit-Reset"

	// HeaderRetryAfter carries the seconds to wait after a secondary limit.
	HeaderRetryAfter = "Retry-After"

	// HeaderLink carries pagination links.
	HeaderLink = "Link"

	// DefaultRateLimitMaxWait bounds how long the engine sleeps for a
	// rate-limit reset before giving up with a RateLimited error.
	DefaultRateLimitMaxWait = 2 * time.Minute

	// RateLimitResetBuffer is added on top of the advertised reset time
	// to absorb clock skew between client and server.
	RateLimitResetBuffer = time.Second
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ExtendedHTTPTimeout is used for longer operations.
	ExtendedHTTPTimeout = 45 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 4

	// LowRetryMax is used for operations that should retry fewer times.
	LowRetryMax = 3

	// DefaultRetryWaitMin is the initial wait between transient retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second

	// ExtendedRetryWaitMax is used for operations that need longer waits.
	ExtendedRetryWaitMax = 30 * time.Second
)

// Concurrency and batching limits.
const (
	// DefaultConcurrencyLimit limits concurrent operations.
	DefaultConcurrencyLimit = 3

	// MaxWorkers is the default number of workers for bulk operations.
	MaxWorkers = 10

	// BufferSize is the default buffer size for channels.
	BufferSize = 100

	// SmallBufferSize is used for smaller buffers.
	SmallBufferSize = 10
)

// Pagination limits.
const (
	// DefaultPerPage is the page size requested when the caller does not choose one.
	DefaultPerPage = 30

	// LargePerPage is used for efficient bulk listing.
	LargePerPage = 100

	// MaxPages caps Link-header walks to prevent infinite loops on a
	// misbehaving server.
	MaxPages = 1000
)

// Cache size and TTL defaults.
const (
	// DefaultCacheSize is the default cache entry limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// CacheMinTTL is the minimum cache time-to-live.
	CacheMinTTL = 30 * time.Second

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024

	// DefaultCacheSetTTL is the default TTL when setting cache values.
	DefaultCacheSetTTL = 10 * time.Minute

	// RepositoryCacheTTL is the TTL for repository metadata.
	RepositoryCacheTTL = 10 * time.Minute

	// IssuesCacheTTL is the TTL for issue listings.
	IssuesCacheTTL = 2 * time.Minute

	// RateLimitCacheTTL is the TTL for rate limit snapshots.
	RateLimitCacheTTL = 30 * time.Second
)

// Circuit breaker tuning.
const (
	// CircuitBreakerThreshold is the failure threshold for the circuit breaker.
	CircuitBreakerThreshold = 5

	// CircuitBreakerSuccessThreshold is the success threshold for the circuit breaker.
	CircuitBreakerSuccessThreshold = 2

	// CircuitBreakerTimeout is the open-state timeout for the circuit breaker.
	CircuitBreakerTimeout = 30 * time.Second
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// UI and display constants.
const (
	// CheckMarkSymbol is used to indicate current/active items.
	CheckMarkSymbol = "✓"

	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2

	// TitleDisplayLength is the default length for truncating titles.
	TitleDisplayLength = 60

	// BodyDisplayLength is the default length for truncating bodies.
	BodyDisplayLength = 80

	// ShortSHALength is the abbreviated commit SHA length for tables.
	ShortSHALength = 7
)

// CRUD operation constants.
const (
	// OperationCreate for create operations.
	OperationCreate = "create"

	// OperationUpdate for update operations.
	OperationUpdate = "update"

	// OperationDelete for delete operations.
	OperationDelete = "delete"

	// OperationList for list operations.
	OperationList = "list"
)

// Issue and reference constants.
const (
	// IssueStateOpen marks an issue that is still open.
	IssueStateOpen = "open"

	// IssueStateClosed marks an issue that has been closed.
	IssueStateClosed = "closed"

	// RefPrefixHeads is the prefix of branch references.
	RefPrefixHeads = "heads/"

	// RefPrefixTags is the prefix of tag references.
	RefPrefixTags = "tags/"
)

// Misc parsing constants.
const (
	// KeyValueSplitParts is the number of parts when splitting key=value strings.
	KeyValueSplitParts = 2

	// RepoPathParts is the number of parts in an owner/name repository path.
	RepoPathParts = 2
)
