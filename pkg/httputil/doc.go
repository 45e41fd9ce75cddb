// Package httputil provides the HTTP plumbing of the data-source client.
//
// [FetchJSON] issues a GET request and decodes a JSON body. Transport
// failures, 5xx responses and 429 rate limits come back as
// [RetryableError], so callers can hand the call to [Retry]:
//
//	var doc hierarchy.Document
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return httputil.FetchJSON(ctx, client, url, &doc)
//	})
//
// [Retry] doubles the delay after each failed attempt and stops early on
// non-retryable errors or context cancellation.
package httputil
