// Package integrations provides HTTP clients for the external services
// the generator talks to. Each service has its own subpackage:
//
//   - boards: the workspace Lakeview dashboard API (create, update,
//     publish, trash)
//   - assistant: the model serving endpoint that suggests widgets from
//     a prompt
//
// # Client Pattern
//
// Service clients compose the shared [Client], which provides JSON
// requests with bearer auth, retry with exponential backoff on
// transient failures, and optional response caching via the cache
// package:
//
//	base := integrations.NewClient(fileCache, "boards", time.Hour,
//	    integrations.AuthHeaders(token))
//
// Status codes map onto the errors package codes (404 not found, 401
// unauthorized, 429 rate limited, 5xx network), with 429 and 5xx marked
// retryable.
package integrations
