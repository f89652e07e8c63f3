package ghapi

import (
	"context"
	"time"
)

// RepositoryResourceClients provides access to repository-scoped resource clients.
type RepositoryResourceClients interface {
	Repositories() RepositoriesClient
	Branches() BranchesClient
	References() ReferencesClient
	Traffic() TrafficClient
}

// IssueResourceClients provides access to issue-tracking resource clients.
type IssueResourceClients interface {
	Issues() IssuesClient
	IssueComments() IssueCommentsClient
	Labels() LabelsClient
	Reactions() ReactionsClient
}

// CollaborationClients provides access to collaboration resource clients.
type CollaborationClients interface {
	Gists() GistsClient
	Teams() TeamsClient
	Projects() ProjectsClient
}

// AutomationClients provides access to automation resource clients.
type AutomationClients interface {
	Secrets() SecretsClient
}

// AccountClients provides access to account and quota resource clients.
type AccountClients interface {
	Users() UsersClient
	RateLimits() RateLimitsClient
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	// Composite interfaces for resource groups
	RepositoryResourceClients
	IssueResourceClients
	CollaborationClients
	AutomationClients
	AccountClients
}

// MetaClient provides access to GitHub API metadata endpoints.
type MetaClient interface {
	GetMeta(ctx context.Context) (*APIMeta, error)
	GetZen(ctx context.Context) (string, error)
}

type Client interface {
	// Composite interfaces for related resource groups
	ResourceClients
	MetaClient
}

// RepositoriesClient provides access to repository operations.
type RepositoriesClient interface {
	Get(ctx context.Context, repo RepositoryRef) (*Repository, error)
	GetByID(ctx context.Context, id int64) (*Repository, error)
	ListForUser(ctx context.Context, username string, params *QueryParams) ([]Repository, error)
	GetContents(ctx context.Context, repo RepositoryRef, path, ref string) (*RepositoryContent, error)
	CreateOrUpdateFile(ctx context.Context, repo RepositoryRef, path string, request *FileCommitRequest) (*FileCommit, error)
	DeleteFile(ctx context.Context, repo RepositoryRef, path string, request *FileCommitRequest) (*FileCommit, error)
}

// IssuesClient provides access to issue operations.
type IssuesClient interface {
	Get(ctx context.Context, repo RepositoryRef, number int) (*Issue, error)
	List(ctx context.Context, repo RepositoryRef, params *QueryParams) ([]Issue, error)
	Create(ctx context.Context, repo RepositoryRef, request *IssueCreateRequest) (*Issue, error)
	Update(ctx context.Context, repo RepositoryRef, number int, request *IssueUpdateRequest) (*Issue, error)
	Lock(ctx context.Context, repo RepositoryRef, number int, request *IssueLockRequest) error
	Unlock(ctx context.Context, repo RepositoryRef, number int) error
}

// IssueCommentsClient provides access to issue comment operations.
type IssueCommentsClient interface {
	List(ctx context.Context, repo RepositoryRef, number int, params *QueryParams) ([]IssueComment, error)
	ListForRepo(ctx context.Context, repo RepositoryRef, params *QueryParams) ([]IssueComment, error)
	Get(ctx context.Context, repo RepositoryRef, commentID int64) (*IssueComment, error)
	Create(ctx context.Context, repo RepositoryRef, number int, request *IssueCommentRequest) (*IssueComment, error)
	Update(ctx context.Context, repo RepositoryRef, commentID int64, request *IssueCommentRequest) (*IssueComment, error)
	Delete(ctx context.Context, repo RepositoryRef, commentID int64) error
}

// GistsClient provides access to gist operations.
type GistsClient interface {
	List(ctx context.Context, params *QueryParams) ([]Gist, error)
	ListForUser(ctx context.Context, username string, params *QueryParams) ([]Gist, error)
	Get(ctx context.Context, gistID string) (*Gist, error)
	Create(ctx context.Context, request *GistCreateRequest) (*Gist, error)
	Update(ctx context.Context, gistID string, request *GistUpdateRequest) (*Gist, error)
	Delete(ctx context.Context, gistID string) error
	Star(ctx context.Context, gistID string) error
	Unstar(ctx context.Context, gistID string) error
	IsStarred(ctx context.Context, gistID string) (bool, error)
	Fork(ctx context.Context, gistID string) (*Gist, error)
}

// LabelsClient provides access to label operations.
type LabelsClient interface {
	List(ctx context.Context, repo RepositoryRef, params *QueryParams) ([]Label, error)
	Get(ctx context.Context, repo RepositoryRef, name string) (*Label, error)
	Create(ctx context.Context, repo RepositoryRef, request *LabelCreateRequest) (*Label, error)
	Update(ctx context.Context, repo RepositoryRef, name string, request *LabelUpdateRequest) (*Label, error)
	Delete(ctx context.Context, repo RepositoryRef, name string) error
	ListForIssue(ctx context.Context, repo RepositoryRef, number int, params *QueryParams) ([]Label, error)
	AddToIssue(ctx context.Context, repo RepositoryRef, number int, labels []string) ([]Label, error)
	RemoveFromIssue(ctx context.Context, repo RepositoryRef, number int, name string) error
	SetForIssue(ctx context.Context, repo RepositoryRef, number int, labels []string) ([]Label, error)
}

// BranchesClient provides access to branch operations.
type BranchesClient interface {
	List(ctx context.Context, repo RepositoryRef, params *QueryParams) ([]Branch, error)
	Get(ctx context.Context, repo RepositoryRef, branch string) (*Branch, error)
	GetProtection(ctx context.Context, repo RepositoryRef, branch string) (*BranchProtection, error)
	UpdateProtection(ctx context.Context, repo RepositoryRef, branch string, request *BranchProtectionRequest) (*BranchProtection, error)
	RemoveProtection(ctx context.Context, repo RepositoryRef, branch string) error
}

// TeamsClient provides access to organization team operations.
type TeamsClient interface {
	List(ctx context.Context, org string, params *QueryParams) ([]Team, error)
	Get(ctx context.Context, org, slug string) (*Team, error)
	Create(ctx context.Context, org string, request *TeamCreateRequest) (*Team, error)
	Update(ctx context.Context, org, slug string, request *TeamUpdateRequest) (*Team, error)
	Delete(ctx context.Context, org, slug string) error
	ListMembers(ctx context.Context, org, slug string, params *QueryParams) ([]User, error)
}

// ProjectsClient provides access to classic project operations.
type ProjectsClient interface {
	ListForRepo(ctx context.Context, repo RepositoryRef, params *QueryParams) ([]Project, error)
	Get(ctx context.Context, projectID int64) (*Project, error)
	CreateForRepo(ctx context.Context, repo RepositoryRef, request *ProjectCreateRequest) (*Project, error)
	Update(ctx context.Context, projectID int64, request *ProjectUpdateRequest) (*Project, error)
	Delete(ctx context.Context, projectID int64) error
}

// SecretsClient provides access to Actions secret operations.
type SecretsClient interface {
	GetPublicKey(ctx context.Context, repo RepositoryRef) (*PublicKey, error)
	List(ctx context.Context, repo RepositoryRef, params *QueryParams) ([]Secret, error)
	Get(ctx context.Context, repo RepositoryRef, name string) (*Secret, error)
	CreateOrUpdate(ctx context.Context, repo RepositoryRef, name, value string) error
	Delete(ctx context.Context, repo RepositoryRef, name string) error
}

// ReferencesClient provides access to git reference operations.
type ReferencesClient interface {
	Get(ctx context.Context, repo RepositoryRef, ref string) (*Reference, error)
	ListMatching(ctx context.Context, repo RepositoryRef, prefix string, params *QueryParams) ([]Reference, error)
	Create(ctx context.Context, repo RepositoryRef, request *ReferenceCreateRequest) (*Reference, error)
	Update(ctx context.Context, repo RepositoryRef, ref string, request *ReferenceUpdateRequest) (*Reference, error)
	Delete(ctx context.Context, repo RepositoryRef, ref string) error
}

// ReactionsClient provides access to issue reaction operations.
type ReactionsClient interface {
	ListForIssue(ctx context.Context, repo RepositoryRef, number int, params *QueryParams) ([]Reaction, error)
	CreateForIssue(ctx context.Context, repo RepositoryRef, number int, content string) (*Reaction, error)
	DeleteForIssue(ctx context.Context, repo RepositoryRef, number int, reactionID int64) error
}

// TrafficClient provides access to repository traffic insights.
type TrafficClient interface {
	Views(ctx context.Context, repo RepositoryRef, per string) (*TrafficViews, error)
	Clones(ctx context.Context, repo RepositoryRef, per string) (*TrafficClones, error)
	TopReferrers(ctx context.Context, repo RepositoryRef) ([]TrafficReferrer, error)
	TopPaths(ctx context.Context, repo RepositoryRef) ([]TrafficPath, error)
}

// UsersClient provides access to user operations.
type UsersClient interface {
	GetAuthenticated(ctx context.Context) (*User, error)
	Get(ctx context.Context, username string) (*User, error)
}

// RateLimitsClient provides access to the rate limit status endpoint.
type RateLimitsClient interface {
	Get(ctx context.Context) (*RateLimits, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a ghapi.Client.
//
// # Authentication
//
// The following precedence is applied by the concrete client implementation
// (see pkg/ghclient and internal/client):
//  1. Token: if set, it is attached to every request as
//     "Authorization: Bearer <token>". Classic and fine-grained personal
//     access tokens as well as installation tokens are accepted verbatim.
//  2. No token: requests are sent unauthenticated. Most read endpoints still
//     work at a much lower rate limit; write endpoints answer 401 or 404.
//
// # Rate limiting and retries
//
// Responses of 403 or 429 carrying X-RateLimit-Remaining: 0 cause the client
// to sleep until the advertised X-RateLimit-Reset instant, bounded by
// RateLimitMaxWait, and then retry the request. Connection errors and 5xx
// responses are retried with exponential backoff tuned by RetryMax,
// RetryWaitMin and RetryWaitMax. Every wait aborts early when the request
// context is cancelled.
//
// # Timeouts and TLS
//
// Per-request timeouts should generally be controlled via context passed to
// client methods; HTTPTimeout caps the underlying transport as a safety net.
// SkipTLSVerify is only honored when the environment variable GHAPI_DEV_MODE
// is set to "true" or "1"; do not use it in production.
type Config struct {
	// Required fields
	// APIEndpoint: base URL for the GitHub REST API. Defaults to
	// "https://api.github.com"; GitHub Enterprise Server installations use
	// "https://<host>/api/v3". ghclient.New normalizes this value by trimming
	// a trailing slash and adding "https://" if no scheme is present.
	APIEndpoint string

	// Authentication options
	// Token: personal access token or installation token sent as a Bearer
	// credential on every request. Leave empty for unauthenticated access.
	Token string

	// Optional configurations
	// HTTPTimeout: optional overall HTTP timeout where supported. Most client
	// calls should rely on context timeouts; this may be used by helpers.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of retries for transient failures (>=500, 429,
	// and connection errors). If 0, a sensible default is used by the client.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// RateLimitMaxWait: upper bound on how long the client sleeps waiting for
	// a primary rate-limit window to reset. Waits longer than this surface a
	// rate-limited error instead. If 0, a two minute default applies.
	RateLimitMaxWait time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and helpers.
	Logger Logger
	// SkipTLSVerify: if true, TLS verification is skipped, and only when
	// GHAPI_DEV_MODE is set. Intended for local development against test
	// servers with self-signed certificates.
	SkipTLSVerify bool
	// UserAgent: overrides the default User-Agent header sent by the client.
	// GitHub requires a User-Agent on every request.
	UserAgent string
}

// APIMeta represents the /meta response describing the GitHub installation.
type APIMeta struct {
	VerifiablePasswordAuthentication bool                `json:"verifiable_password_authentication" yaml:"verifiable_password_authentication"`
	SSHKeyFingerprints               map[string]string   `json:"ssh_key_fingerprints"               yaml:"ssh_key_fingerprints"`
	SSHKeys                          []string            `json:"ssh_keys"                           yaml:"ssh_keys"`
	Hooks                            []string            `json:"hooks,omitempty"                    yaml:"hooks,omitempty"`
	Web                              []string            `json:"web,omitempty"                      yaml:"web,omitempty"`
	API                              []string            `json:"api,omitempty"                      yaml:"api,omitempty"`
	Git                              []string            `json:"git,omitempty"                      yaml:"git,omitempty"`
	Pages                            []string            `json:"pages,omitempty"                    yaml:"pages,omitempty"`
	Importer                         []string            `json:"importer,omitempty"                 yaml:"importer,omitempty"`
	Actions                          []string            `json:"actions,omitempty"                  yaml:"actions,omitempty"`
	Domains                          map[string][]string `json:"domains,omitempty"                  yaml:"domains,omitempty"`
}
