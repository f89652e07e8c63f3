package client

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
)

// apiPath joins escaped segments under a leading slash. Each segment is
// escaped whole, so a label name like "help wanted" or "a/b" arrives at
// the server as one path element.
func apiPath(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(segment))
	}

	return "/" + strings.Join(escaped, "/")
}

// repoPath is the base path for a repository's resources.
func repoPath(repo ghapi.RepositoryRef) string {
	return apiPath("repos", repo.Owner, repo.Name)
}

// issuePath addresses one issue within a repository.
func issuePath(repo ghapi.RepositoryRef, number int) string {
	return repoPath(repo) + "/issues/" + strconv.Itoa(number)
}

// escapeRef escapes a git ref or content path one segment at a time. The
// slashes that structure it survive, so "heads/feature/x" stays three
// path elements deep.
func escapeRef(ref string) string {
	parts := strings.Split(ref, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}

	return strings.Join(parts, "/")
}
