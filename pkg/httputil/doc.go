// Package httputil holds the retry policy shared by the upstream API
// clients.
//
// Wrap transient failures (network errors, 5xx and 429 responses) with
// [Retryable] or [RetryAfter]; [Retry] re-runs the call with exponential
// backoff and returns any other error immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
package httputil
