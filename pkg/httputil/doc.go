// Package httputil provides HTTP infrastructure shared by API clients.
//
// # Retry
//
// [Retry] wraps requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Wrap such failures in [RetryableError] and Retry backs off exponentially
// before trying again; other errors return immediately.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
package httputil
