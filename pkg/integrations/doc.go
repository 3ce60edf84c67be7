// Package integrations provides the HTTP plumbing for upstream data APIs.
//
// [Client] wraps net/http with JSON encoding, status classification and
// retry via [httputil.RetryWithBackoff]. Responses can be cached in any [cache.Cache]
// under a namespace, so repeated CLI runs do not hit the API again:
//
//	c := integrations.NewClient(fileCache, "usaspending", cache.TTLHTTP, nil)
//	err := c.Cached(ctx, "agency/1125", false, &resp, func() error {
//	    return c.Post(ctx, url, body, &resp)
//	})
//
// Status handling:
//
//   - 404 returns [ErrNotFound]
//   - 429 returns a retryable [ErrRateLimited], honoring Retry-After
//   - 5xx and transport failures return a retryable [ErrNetwork]
//
// The usaspending subpackage implements the federal spending API on top
// of this client.
package integrations
