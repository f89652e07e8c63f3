package ghapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RepositoryRef is the canonical owner/name pair every repository-scoped
// operation resolves to before any request is built.
type RepositoryRef struct {
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"name"  yaml:"name"`
}

// NewRepositoryRef builds a RepositoryRef, validating both parts.
func NewRepositoryRef(owner, name string) (RepositoryRef, error) {
	if owner == "" {
		return RepositoryRef{}, ErrEmptyOwner
	}

	if name == "" {
		return RepositoryRef{}, ErrEmptyRepoName
	}

	return RepositoryRef{Owner: owner, Name: name}, nil
}

// ParseRepositoryRef resolves the two textual input modes: "owner/name"
// and a repository URL (https, or ssh in scp-like form). Numeric ids are
// not handled here; they need an API round trip (RepositoriesClient.GetByID).
func ParseRepositoryRef(value string) (RepositoryRef, error) {
	if value == "" {
		return RepositoryRef{}, ErrInvalidRepoPath
	}

	if strings.Contains(value, "://") || strings.HasPrefix(value, "git@") {
		return parseRepositoryURL(value)
	}

	parts := strings.Split(value, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepositoryRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoPath, value)
	}

	return RepositoryRef{Owner: parts[0], Name: strings.TrimSuffix(parts[1], ".git")}, nil
}

func parseRepositoryURL(rawURL string) (RepositoryRef, error) {
	// scp-like ssh form: git@github.com:owner/name.git
	if strings.HasPrefix(rawURL, "git@") {
		_, after, found := strings.Cut(rawURL, ":")
		if !found {
			return RepositoryRef{}, fmt.Errorf("%w: %q", ErrInvalidRepositoryURL, rawURL)
		}

		return splitRepoPath(after, rawURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return RepositoryRef{}, fmt.Errorf("%w: %q", ErrInvalidRepositoryURL, rawURL)
	}

	return splitRepoPath(parsed.Path, rawURL)
}

func splitRepoPath(path, rawURL string) (RepositoryRef, error) {
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segments) < 2 {
		return RepositoryRef{}, fmt.Errorf("%w: %q", ErrInvalidRepositoryURL, rawURL)
	}

	return RepositoryRef{
		Owner: segments[0],
		Name:  strings.TrimSuffix(segments[1], ".git"),
	}, nil
}

// String renders the ref in the owner/name form accepted back by
// ParseRepositoryRef.
func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// IsZero reports whether the ref has been resolved.
func (r RepositoryRef) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

// Timestamp unmarshals both RFC 3339 strings and epoch seconds. The API
// uses RFC 3339 almost everywhere but encodes rate-limit resets as epoch
// numbers.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" || raw == "" {
		t.Time = time.Time{}

		return nil
	}

	if epoch, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t.Time = time.Unix(epoch, 0).UTC()

		return nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", raw, err)
	}

	t.Time = parsed

	return nil
}

// MarshalJSON implements json.Marshaler using RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Time.UTC().Format(time.RFC3339) + `"`), nil
}

// Equal compares the wrapped instants.
func (t Timestamp) Equal(other Timestamp) bool {
	return t.Time.Equal(other.Time)
}

// Rate is a snapshot of the rate-limit headers returned on every response.
type Rate struct {
	Limit     int       `json:"limit"     yaml:"limit"`
	Remaining int       `json:"remaining" yaml:"remaining"`
	Reset     Timestamp `json:"reset"     yaml:"reset"`
}

// RateLimits is the full quota report from the /rate_limit endpoint.
type RateLimits struct {
	Resources RateLimitResources `json:"resources" yaml:"resources"`
	Rate      Rate               `json:"rate"      yaml:"rate"`
}

// RateLimitResources breaks the quota down per API family.
type RateLimitResources struct {
	Core    Rate `json:"core"    yaml:"core"`
	Search  Rate `json:"search"  yaml:"search"`
	GraphQL Rate `json:"graphql" yaml:"graphql"`
}

// Page is one fetched page of a list endpoint: the raw JSON array plus
// the rel="next" target extracted from the Link header. An empty NextURL
// marks the final page.
type Page struct {
	Body    []byte
	NextURL string
}
