package ghapi

import "time"

// User represents a GitHub user account.
type User struct {
	Login     string `json:"login"                yaml:"login"`
	ID        int64  `json:"id"                   yaml:"id"`
	NodeID    string `json:"node_id"              yaml:"node_id"`
	AvatarURL string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"   yaml:"html_url,omitempty"`
	Type      string `json:"type,omitempty"       yaml:"type,omitempty"`
	SiteAdmin bool   `json:"site_admin"           yaml:"site_admin"`
	Name      string `json:"name,omitempty"       yaml:"name,omitempty"`
	Email     string `json:"email,omitempty"      yaml:"email,omitempty"`
}

// Repository represents a GitHub repository.
type Repository struct {
	ID            int64      `json:"id"                       yaml:"id"`
	NodeID        string     `json:"node_id"                  yaml:"node_id"`
	Name          string     `json:"name"                     yaml:"name"`
	FullName      string     `json:"full_name"                yaml:"full_name"`
	Owner         *User      `json:"owner,omitempty"          yaml:"owner,omitempty"`
	Private       bool       `json:"private"                  yaml:"private"`
	HTMLURL       string     `json:"html_url,omitempty"       yaml:"html_url,omitempty"`
	Description   string     `json:"description,omitempty"    yaml:"description,omitempty"`
	Fork          bool       `json:"fork"                     yaml:"fork"`
	DefaultBranch string     `json:"default_branch,omitempty" yaml:"default_branch,omitempty"`
	Language      string     `json:"language,omitempty"       yaml:"language,omitempty"`
	Archived      bool       `json:"archived"                 yaml:"archived"`
	CreatedAt     time.Time  `json:"created_at"               yaml:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"               yaml:"updated_at"`
	PushedAt      *time.Time `json:"pushed_at,omitempty"      yaml:"pushed_at,omitempty"`
}

// Ref returns the canonical owner/name pair of the repository.
func (r *Repository) Ref() (RepositoryRef, error) {
	if r.Owner == nil {
		return ParseRepositoryRef(r.FullName)
	}

	return NewRepositoryRef(r.Owner.Login, r.Name)
}

// Milestone represents an issue milestone.
type Milestone struct {
	ID          int64      `json:"id"                    yaml:"id"`
	Number      int        `json:"number"                yaml:"number"`
	Title       string     `json:"title"                 yaml:"title"`
	State       string     `json:"state"                 yaml:"state"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	DueOn       *time.Time `json:"due_on,omitempty"      yaml:"due_on,omitempty"`
}

// Issue represents an issue in a repository. Pull requests also appear
// as issues on the issues endpoints; PullRequest is non-nil for those.
type Issue struct {
	ID          int64             `json:"id"                     yaml:"id"`
	NodeID      string            `json:"node_id"                yaml:"node_id"`
	Number      int               `json:"number"                 yaml:"number"`
	Title       string            `json:"title"                  yaml:"title"`
	Body        string            `json:"body,omitempty"         yaml:"body,omitempty"`
	State       string            `json:"state"                  yaml:"state"`
	Locked      bool              `json:"locked"                 yaml:"locked"`
	User        *User             `json:"user,omitempty"         yaml:"user,omitempty"`
	Labels      []Label           `json:"labels,omitempty"       yaml:"labels,omitempty"`
	Assignees   []User            `json:"assignees,omitempty"    yaml:"assignees,omitempty"`
	Milestone   *Milestone        `json:"milestone,omitempty"    yaml:"milestone,omitempty"`
	Comments    int               `json:"comments"               yaml:"comments"`
	HTMLURL     string            `json:"html_url,omitempty"     yaml:"html_url,omitempty"`
	PullRequest *IssuePullRequest `json:"pull_request,omitempty" yaml:"pull_request,omitempty"`
	CreatedAt   time.Time         `json:"created_at"             yaml:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"             yaml:"updated_at"`
	ClosedAt    *time.Time        `json:"closed_at,omitempty"    yaml:"closed_at,omitempty"`
}

// IssuePullRequest marks an issue that is really a pull request.
type IssuePullRequest struct {
	URL     string `json:"url,omitempty"      yaml:"url,omitempty"`
	HTMLURL string `json:"html_url,omitempty" yaml:"html_url,omitempty"`
}

// IssueCreateRequest represents a request to open an issue.
type IssueCreateRequest struct {
	// Title is the issue title (required).
	Title string `json:"title" yaml:"title"`
	// Body is the issue text; empty omits it.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
	// Assignees lists logins to assign on creation.
	Assignees []string `json:"assignees,omitempty" yaml:"assignees,omitempty"`
	// Milestone associates the issue with a milestone number.
	Milestone *int `json:"milestone,omitempty" yaml:"milestone,omitempty"`
	// Labels lists label names to apply on creation.
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// IssueUpdateRequest represents a request to update an issue.
type IssueUpdateRequest struct {
	// Title updates the title; nil leaves it unchanged.
	Title *string `json:"title,omitempty" yaml:"title,omitempty"`
	// Body updates the text; nil leaves it unchanged.
	Body *string `json:"body,omitempty" yaml:"body,omitempty"`
	// State moves the issue to "open" or "closed"; nil leaves it unchanged.
	State *string `json:"state,omitempty" yaml:"state,omitempty"`
	// StateReason qualifies a close ("completed", "not_planned").
	StateReason *string `json:"state_reason,omitempty" yaml:"state_reason,omitempty"`
	// Assignees replaces the assignee set; nil leaves it unchanged.
	Assignees *[]string `json:"assignees,omitempty" yaml:"assignees,omitempty"`
	// Labels replaces the label set; nil leaves it unchanged.
	Labels *[]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	// Milestone reassigns the milestone; nil leaves it unchanged.
	Milestone *int `json:"milestone,omitempty" yaml:"milestone,omitempty"`
}

// IssueLockRequest represents a request to lock an issue conversation.
type IssueLockRequest struct {
	// LockReason is one of "off-topic", "too heated", "resolved", "spam".
	LockReason string `json:"lock_reason,omitempty" yaml:"lock_reason,omitempty"`
}

// IssueComment represents a comment on an issue.
type IssueComment struct {
	ID        int64     `json:"id"                  yaml:"id"`
	NodeID    string    `json:"node_id"             yaml:"node_id"`
	Body      string    `json:"body"                yaml:"body"`
	User      *User     `json:"user,omitempty"      yaml:"user,omitempty"`
	HTMLURL   string    `json:"html_url,omitempty"  yaml:"html_url,omitempty"`
	IssueURL  string    `json:"issue_url,omitempty" yaml:"issue_url,omitempty"`
	CreatedAt time.Time `json:"created_at"          yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at"          yaml:"updated_at"`
}

// IssueCommentRequest represents the body of a comment create or update.
type IssueCommentRequest struct {
	// Body is the comment text (required).
	Body string `json:"body" yaml:"body"`
}

// Label represents an issue label.
type Label struct {
	ID          int64  `json:"id"                    yaml:"id"`
	NodeID      string `json:"node_id"               yaml:"node_id"`
	Name        string `json:"name"                  yaml:"name"`
	Color       string `json:"color"                 yaml:"color"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Default     bool   `json:"default"               yaml:"default"`
	URL         string `json:"url,omitempty"         yaml:"url,omitempty"`
}

// LabelCreateRequest represents a request to create a label.
type LabelCreateRequest struct {
	// Name is the label name (required).
	Name string `json:"name" yaml:"name"`
	// Color is a hex color without the leading "#".
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
	// Description is a short explanation of the label's purpose.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// LabelUpdateRequest represents a request to update a label.
type LabelUpdateRequest struct {
	// NewName renames the label; nil leaves it unchanged.
	NewName *string `json:"new_name,omitempty" yaml:"new_name,omitempty"`
	// Color updates the hex color; nil leaves it unchanged.
	Color *string `json:"color,omitempty" yaml:"color,omitempty"`
	// Description updates the description; nil leaves it unchanged.
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Gist represents a gist.
type Gist struct {
	ID          string              `json:"id"                    yaml:"id"`
	NodeID      string              `json:"node_id"               yaml:"node_id"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Public      bool                `json:"public"                yaml:"public"`
	Owner       *User               `json:"owner,omitempty"       yaml:"owner,omitempty"`
	Files       map[string]GistFile `json:"files"                 yaml:"files"`
	Comments    int                 `json:"comments"              yaml:"comments"`
	HTMLURL     string              `json:"html_url,omitempty"    yaml:"html_url,omitempty"`
	GitPullURL  string              `json:"git_pull_url,omitempty" yaml:"git_pull_url,omitempty"`
	CreatedAt   time.Time           `json:"created_at"            yaml:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"            yaml:"updated_at"`
}

// GistFile represents one file inside a gist.
type GistFile struct {
	Filename  string `json:"filename,omitempty" yaml:"filename,omitempty"`
	Type      string `json:"type,omitempty"     yaml:"type,omitempty"`
	Language  string `json:"language,omitempty" yaml:"language,omitempty"`
	RawURL    string `json:"raw_url,omitempty"  yaml:"raw_url,omitempty"`
	Size      int    `json:"size,omitempty"     yaml:"size,omitempty"`
	Truncated bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Content   string `json:"content,omitempty"  yaml:"content,omitempty"`
}

// GistCreateRequest represents a request to create a gist.
type GistCreateRequest struct {
	// Description labels the gist in listings.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Public controls whether the gist is publicly listed.
	Public bool `json:"public" yaml:"public"`
	// Files maps filename to content; at least one file is required.
	Files map[string]GistFileContent `json:"files" yaml:"files"`
}

// GistUpdateRequest represents a request to update a gist. A nil file
// value deletes that file from the gist.
type GistUpdateRequest struct {
	// Description updates the gist description.
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	// Files maps filename to new content; a nil entry removes the file.
	Files map[string]*GistFileContent `json:"files,omitempty" yaml:"files,omitempty"`
}

// GistFileContent carries file content in gist create/update requests.
type GistFileContent struct {
	Content  string `json:"content"            yaml:"content"`
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`
}

// Branch represents a repository branch.
type Branch struct {
	Name      string       `json:"name"      yaml:"name"`
	Commit    BranchCommit `json:"commit"    yaml:"commit"`
	Protected bool         `json:"protected" yaml:"protected"`
}

// BranchCommit is the tip commit of a branch.
type BranchCommit struct {
	SHA string `json:"sha" yaml:"sha"`
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// BranchProtection represents the protection settings of a branch.
type BranchProtection struct {
	RequiredStatusChecks       *RequiredStatusChecks       `json:"required_status_checks,omitempty"        yaml:"required_status_checks,omitempty"`
	EnforceAdmins              *EnforceAdmins              `json:"enforce_admins,omitempty"                yaml:"enforce_admins,omitempty"`
	RequiredPullRequestReviews *RequiredPullRequestReviews `json:"required_pull_request_reviews,omitempty" yaml:"required_pull_request_reviews,omitempty"`
	AllowForcePushes           *ProtectionToggle           `json:"allow_force_pushes,omitempty"            yaml:"allow_force_pushes,omitempty"`
	AllowDeletions             *ProtectionToggle           `json:"allow_deletions,omitempty"               yaml:"allow_deletions,omitempty"`
}

// RequiredStatusChecks lists the checks that must pass before merging.
type RequiredStatusChecks struct {
	Strict   bool     `json:"strict"   yaml:"strict"`
	Contexts []string `json:"contexts" yaml:"contexts"`
}

// EnforceAdmins reports whether protection also applies to administrators.
type EnforceAdmins struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// RequiredPullRequestReviews describes the review gate of a protected branch.
type RequiredPullRequestReviews struct {
	DismissStaleReviews          bool `json:"dismiss_stale_reviews"           yaml:"dismiss_stale_reviews"`
	RequireCodeOwnerReviews      bool `json:"require_code_owner_reviews"      yaml:"require_code_owner_reviews"`
	RequiredApprovingReviewCount int  `json:"required_approving_review_count" yaml:"required_approving_review_count"`
}

// ProtectionToggle is a single enabled/disabled protection switch.
type ProtectionToggle struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// BranchProtectionRequest updates branch protection. The API requires the
// four core keys to be present even when null, so none carry omitempty.
type BranchProtectionRequest struct {
	RequiredStatusChecks       *RequiredStatusChecks       `json:"required_status_checks"        yaml:"required_status_checks"`
	EnforceAdmins              *bool                       `json:"enforce_admins"                yaml:"enforce_admins"`
	RequiredPullRequestReviews *RequiredPullRequestReviews `json:"required_pull_request_reviews" yaml:"required_pull_request_reviews"`
	Restrictions               *BranchRestrictions         `json:"restrictions"                  yaml:"restrictions"`
}

// BranchRestrictions limits who can push to a protected branch.
type BranchRestrictions struct {
	Users []string `json:"users" yaml:"users"`
	Teams []string `json:"teams" yaml:"teams"`
}

// Team represents an organization team.
type Team struct {
	ID           int64  `json:"id"                      yaml:"id"`
	NodeID       string `json:"node_id"                 yaml:"node_id"`
	Name         string `json:"name"                    yaml:"name"`
	Slug         string `json:"slug"                    yaml:"slug"`
	Description  string `json:"description,omitempty"   yaml:"description,omitempty"`
	Privacy      string `json:"privacy,omitempty"       yaml:"privacy,omitempty"`
	Permission   string `json:"permission,omitempty"    yaml:"permission,omitempty"`
	HTMLURL      string `json:"html_url,omitempty"      yaml:"html_url,omitempty"`
	MembersCount int    `json:"members_count,omitempty" yaml:"members_count,omitempty"`
	ReposCount   int    `json:"repos_count,omitempty"   yaml:"repos_count,omitempty"`
}

// TeamCreateRequest represents a request to create a team.
type TeamCreateRequest struct {
	// Name is the team name (required).
	Name string `json:"name" yaml:"name"`
	// Description explains the team's purpose.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Privacy is "secret" or "closed".
	Privacy string `json:"privacy,omitempty" yaml:"privacy,omitempty"`
	// Maintainers lists logins granted the maintainer role on creation.
	Maintainers []string `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	// RepoNames lists owner/name repositories to grant the team on creation.
	RepoNames []string `json:"repo_names,omitempty" yaml:"repo_names,omitempty"`
}

// TeamUpdateRequest represents a request to update a team.
type TeamUpdateRequest struct {
	// Name renames the team; nil leaves it unchanged.
	Name *string `json:"name,omitempty" yaml:"name,omitempty"`
	// Description updates the description; nil leaves it unchanged.
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	// Privacy updates the visibility; nil leaves it unchanged.
	Privacy *string `json:"privacy,omitempty" yaml:"privacy,omitempty"`
}

// Project represents a classic repository project board.
type Project struct {
	ID        int64     `json:"id"              yaml:"id"`
	NodeID    string    `json:"node_id"         yaml:"node_id"`
	Number    int       `json:"number"          yaml:"number"`
	Name      string    `json:"name"            yaml:"name"`
	Body      string    `json:"body,omitempty"  yaml:"body,omitempty"`
	State     string    `json:"state"           yaml:"state"`
	Creator   *User     `json:"creator,omitempty" yaml:"creator,omitempty"`
	HTMLURL   string    `json:"html_url,omitempty" yaml:"html_url,omitempty"`
	CreatedAt time.Time `json:"created_at"      yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at"      yaml:"updated_at"`
}

// ProjectCreateRequest represents a request to create a project board.
type ProjectCreateRequest struct {
	// Name is the board name (required).
	Name string `json:"name" yaml:"name"`
	// Body describes the board.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
}

// ProjectUpdateRequest represents a request to update a project board.
type ProjectUpdateRequest struct {
	// Name renames the board; nil leaves it unchanged.
	Name *string `json:"name,omitempty" yaml:"name,omitempty"`
	// Body updates the description; nil leaves it unchanged.
	Body *string `json:"body,omitempty" yaml:"body,omitempty"`
	// State moves the board to "open" or "closed"; nil leaves it unchanged.
	State *string `json:"state,omitempty" yaml:"state,omitempty"`
}

// Secret represents an Actions secret. Values are write-only; the API
// never returns them.
type Secret struct {
	Name      string    `json:"name"       yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// SecretListPage is one page of the secrets list envelope.
type SecretListPage struct {
	TotalCount int      `json:"total_count" yaml:"total_count"`
	Secrets    []Secret `json:"secrets"     yaml:"secrets"`
}

// PublicKey is the repository key secrets are sealed against.
type PublicKey struct {
	KeyID string `json:"key_id" yaml:"key_id"`
	Key   string `json:"key"    yaml:"key"`
}

// SecretPutRequest submits a sealed secret value.
type SecretPutRequest struct {
	// EncryptedValue is the base64 sealed-box ciphertext.
	EncryptedValue string `json:"encrypted_value" yaml:"encrypted_value"`
	// KeyID identifies the public key the value was sealed against.
	KeyID string `json:"key_id" yaml:"key_id"`
}

// Reference represents a git reference.
type Reference struct {
	Ref    string    `json:"ref"     yaml:"ref"`
	NodeID string    `json:"node_id" yaml:"node_id"`
	URL    string    `json:"url,omitempty" yaml:"url,omitempty"`
	Object GitObject `json:"object"  yaml:"object"`
}

// GitObject is the object a reference points at.
type GitObject struct {
	Type string `json:"type" yaml:"type"`
	SHA  string `json:"sha"  yaml:"sha"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ReferenceCreateRequest represents a request to create a reference.
type ReferenceCreateRequest struct {
	// Ref is the fully qualified name, e.g. "refs/heads/feature-x".
	Ref string `json:"ref" yaml:"ref"`
	// SHA is the object the new reference points at.
	SHA string `json:"sha" yaml:"sha"`
}

// ReferenceUpdateRequest represents a request to move a reference.
type ReferenceUpdateRequest struct {
	// SHA is the object the reference should point at.
	SHA string `json:"sha" yaml:"sha"`
	// Force permits non-fast-forward updates.
	Force bool `json:"force" yaml:"force"`
}

// Reaction represents a reaction on an issue or comment.
type Reaction struct {
	ID        int64     `json:"id"         yaml:"id"`
	NodeID    string    `json:"node_id"    yaml:"node_id"`
	User      *User     `json:"user,omitempty" yaml:"user,omitempty"`
	Content   string    `json:"content"    yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ReactionRequest creates a reaction.
type ReactionRequest struct {
	// Content is one of "+1", "-1", "laugh", "confused", "heart",
	// "hooray", "rocket", "eyes".
	Content string `json:"content" yaml:"content"`
}

// TrafficViews is the two-week view report of a repository.
type TrafficViews struct {
	Count   int           `json:"count"   yaml:"count"`
	Uniques int           `json:"uniques" yaml:"uniques"`
	Views   []TrafficData `json:"views"   yaml:"views"`
}

// TrafficClones is the two-week clone report of a repository.
type TrafficClones struct {
	Count   int           `json:"count"   yaml:"count"`
	Uniques int           `json:"uniques" yaml:"uniques"`
	Clones  []TrafficData `json:"clones"  yaml:"clones"`
}

// TrafficData is one bucketed traffic sample.
type TrafficData struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Count     int       `json:"count"     yaml:"count"`
	Uniques   int       `json:"uniques"   yaml:"uniques"`
}

// TrafficReferrer is one referring site in the traffic report.
type TrafficReferrer struct {
	Referrer string `json:"referrer" yaml:"referrer"`
	Count    int    `json:"count"    yaml:"count"`
	Uniques  int    `json:"uniques"  yaml:"uniques"`
}

// TrafficPath is one popular content path in the traffic report.
type TrafficPath struct {
	Path    string `json:"path"    yaml:"path"`
	Title   string `json:"title"   yaml:"title"`
	Count   int    `json:"count"   yaml:"count"`
	Uniques int    `json:"uniques" yaml:"uniques"`
}

// RepositoryContent represents a file fetched through the contents API.
type RepositoryContent struct {
	Type        string `json:"type"                   yaml:"type"`
	Encoding    string `json:"encoding,omitempty"     yaml:"encoding,omitempty"`
	Size        int    `json:"size"                   yaml:"size"`
	Name        string `json:"name"                   yaml:"name"`
	Path        string `json:"path"                   yaml:"path"`
	Content     string `json:"content,omitempty"      yaml:"content,omitempty"`
	SHA         string `json:"sha"                    yaml:"sha"`
	HTMLURL     string `json:"html_url,omitempty"     yaml:"html_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty" yaml:"download_url,omitempty"`
}

// FileCommitRequest creates or updates a file through the contents API.
type FileCommitRequest struct {
	// Message is the commit message (required).
	Message string `json:"message" yaml:"message"`
	// Content is the new file content, base64 encoded.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`
	// SHA is the blob being replaced; required when updating or deleting
	// an existing file, omitted when creating one.
	SHA string `json:"sha,omitempty" yaml:"sha,omitempty"`
	// Branch targets a branch other than the default.
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
	// Committer overrides the committer identity.
	Committer *CommitAuthor `json:"committer,omitempty" yaml:"committer,omitempty"`
}

// CommitAuthor identifies a commit author or committer.
type CommitAuthor struct {
	Name  string `json:"name"  yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// FileCommit is the contents API response to a file create/update/delete.
type FileCommit struct {
	Content *RepositoryContent `json:"content,omitempty" yaml:"content,omitempty"`
	Commit  CommitInfo         `json:"commit"            yaml:"commit"`
}

// CommitInfo is the commit produced by a contents API mutation.
type CommitInfo struct {
	SHA     string `json:"sha"               yaml:"sha"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	HTMLURL string `json:"html_url,omitempty" yaml:"html_url,omitempty"`
}

// TeamMembership represents a user's membership state in a team.
type TeamMembership struct {
	State string `json:"state" yaml:"state"`
	Role  string `json:"role"  yaml:"role"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
}
