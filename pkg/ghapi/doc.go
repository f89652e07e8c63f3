// Package ghapi provides types, interfaces, and helpers for working with the
// GitHub REST API.
//
// # Overview
//
// The ghapi package defines the domain types (e.g., Repository, Issue, Gist,
// Label, Reference) and the interfaces for resource-oriented clients (e.g.,
// IssuesClient, GistsClient). A concrete implementation of these clients is
// provided by the ghclient package, which wires configuration, transport,
// authentication, retry, and rate-limit handling. Most consumers should
// import ghclient to construct a client and then interact with the resource
// client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
//	  "github.com/fivetwenty-io/ghapi-client/pkg/ghclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := ghclient.New(&ghapi.Config{Token: "ghp_example"})
//	  if err != nil { log.Fatal(err) }
//
//	  // List the first page of open issues
//	  repo := ghapi.RepositoryRef{Owner: "octocat", Name: "hello-world"}
//	  issues, err := cli.Issues().List(ctx, repo, ghapi.NewQueryParams().WithState("open"))
//	  if err != nil { log.Fatal(err) }
//	  _ = issues
//	}
//
// # Queries and pagination
//
// Use QueryParams to express common list options (page, per_page, sort,
// direction, labels, filters). List endpoints paginate through the Link
// response header; the package provides helpers for iterating or collecting
// paginated results:
//
//	it := ghapi.NewPaginationIterator[ghapi.Issue](ctx, fetcher, "/repos/octocat/hello-world/issues", nil)
//	for it.HasNext() {
//	  issue, err := it.Next()
//	  if err != nil { break }
//	  _ = issue
//	}
//
// or fetch all results at once:
//
//	all, err := ghapi.FetchAllPages[ghapi.Issue](ctx, fetcher, "/repos/octocat/hello-world/issues", nil, ghapi.DefaultPaginationOptions())
//	if err != nil { /* handle error */ }
//	_ = all
//
// # Errors
//
// API errors are represented by ResponseError, which preserves the server's
// message verbatim and classifies the status into an ErrorKind. Helpers such
// as IsNotFound, IsRateLimited, and IsValidationFailed make it easy to branch
// on common GitHub error cases; RateLimitResetTime extracts the reset instant
// from rate-limited errors.
//
// # Interceptors and caching
//
// The package includes generic building blocks such as request/response
// interceptors (for logging, auth headers, metrics, rate limiting, circuit
// breaking) and a simple pluggable Cache abstraction with memory and NATS KV
// backends. The ghclient package composes these pieces for a sensible default
// client; applications with advanced needs can also use these primitives
// directly.
//
// # Resources
//
// Resource clients follow a consistent CRUD-and-actions pattern across GitHub
// resources (Repositories, Issues, IssueComments, Gists, Labels, Branches,
// Teams, Projects, Secrets, References, Reactions, Traffic, Users,
// RateLimits). See the individual interfaces in client.go for the full
// surface area.
package ghapi
