// Package httputil provides retry infrastructure for workspace API
// clients.
//
// [Retry] wraps requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Only errors wrapped with [RetryableError] are retried, so callers
// decide which failures are transient:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return doRequest()
//	})
//
// Response caching lives in the cache package; clients compose the two.
package httputil
