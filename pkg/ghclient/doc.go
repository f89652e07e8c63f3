// Package ghclient provides the primary entry point for constructing a
// GitHub REST API client that implements the ghapi.Client interface.
//
// It layers configuration, HTTP transport, retry and rate-limit handling,
// and authentication on top of the resource interfaces and types defined in
// the ghapi package. Most applications should import ghclient to build a
// client, then use the returned ghapi.Client to access resource-specific
// clients, for example Repositories(), Issues(), Secrets(), etc.
//
// Quick start
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
//
//	  // Minimal: unauthenticated access to the public API.
//	  cli, err := ghclient.New(&ghapi.Config{})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with a token you already have:
//	  cli, err = ghclient.New(&ghapi.Config{
//	    Token: "ghp_example", // personal access token or installation token
//	  })
//
//	  // Or against a GitHub Enterprise Server installation:
//	  cli, err = ghclient.New(&ghapi.Config{
//	    APIEndpoint: "https://github.example.com/api/v3",
//	    Token:       "ghp_example",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the ghapi.Client interface
//	  repo, err := cli.Repositories().Get(ctx, ghapi.RepositoryRef{Owner: "octocat", Name: "hello-world"})
//	  if err != nil { log.Fatal(err) }
//	  _ = repo
//	}
//
// # TLS and development mode
//
// For local development, you can set Config.SkipTLSVerify=true. This is gated
// by the environment variable GHAPI_DEV_MODE to avoid accidental insecure
// usage in production environments.
//
// # Helpers
//
// The package also provides convenience constructors NewWithEndpoint and
// NewWithToken that wrap New with the appropriate configuration.
package ghclient
