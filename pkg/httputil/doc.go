// Package httputil provides the HTTP helpers brandqr uses to fetch remote
// share templates.
//
// # Overview
//
//   - [Fetch]: GET a URL with a size limit, classifying failures
//   - [Retry]: Automatic retry with exponential backoff
//
// # Retry
//
// [Retry] only repeats errors wrapped with [Retryable]. [Fetch] wraps the
// transient ones for you:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Usage:
//
//	var body []byte
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    var err error
//	    body, err = httputil.Fetch(ctx, client, url, 1<<20)
//	    return err
//	})
//
// Defaults: 3 attempts, 1 second initial delay doubling after each failure.
package httputil
