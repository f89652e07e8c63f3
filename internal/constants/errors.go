package constants

import "errors"

// Configuration errors.
var (
	ErrNoTokenConfigured   = errors.New("no access token configured, use 'ghapi auth login' or set GHAPI_TOKEN")
	ErrNoEndpoint          = errors.New("no API endpoint provided")
	ErrConfigNotFound      = errors.New("configuration not found")
	ErrNoDefaultRepository = errors.New("no repository given and no default repository configured")
	ErrUnknownConfigKey    = errors.New("unknown configuration key")
)

// Argument validation errors.
var (
	ErrEmptyPath            = errors.New("request path is empty")
	ErrEmptyOwner           = errors.New("repository owner is empty")
	ErrEmptyRepoName        = errors.New("repository name is empty")
	ErrInvalidRepoPath      = errors.New("repository must be given as owner/name, a repository URL, or a numeric id")
	ErrInvalidRepositoryURL = errors.New("not a recognizable repository URL")
	ErrEmptySecretName      = errors.New("secret name is empty")
	ErrEmptyReference       = errors.New("git reference is empty")
	ErrEmptyLabelName       = errors.New("label name is empty")
)

// Sealed box errors.
var (
	ErrInvalidPublicKey    = errors.New("public key is not valid base64")
	ErrInvalidPublicKeyLen = errors.New("public key must decode to exactly 32 bytes")
	ErrEmptyPlaintext      = errors.New("plaintext is empty")
)

// Operation errors.
var (
	ErrResourceNotFound    = errors.New("resource not found")
	ErrUnsupportedResource = errors.New("unsupported resource type")
	ErrUnsupportedOutput   = errors.New("unsupported output format")
	ErrNoMorePages         = errors.New("no more pages")
	ErrNoMoreItems         = errors.New("iterator exhausted")
	ErrBatchPartialFailure = errors.New("batch completed with failures")
)

// File system errors.
var (
	ErrNotRegularFile             = errors.New("path is not a regular file")
	ErrDirectoryTraversalDetected = errors.New("directory traversal detected in file path")
)
