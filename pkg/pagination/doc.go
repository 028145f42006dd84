// Package pagination walks page-numbered search endpoints one page at a time.
//
// The search API is stateless by page number, so pages are requested in
// strictly increasing order from 1 to a fixed upper bound. Each page is fully
// handled before the next request is sent, and the first failure ends the
// walk.
//
// Example usage:
//
//	walker := pagination.NewWalker(fetcher, pagination.DefaultConfig())
//	err := walker.Walk(ctx, func(page int, data []byte) error {
//		items, err := harvest.DecodePage(page, data)
//		...
//	})
//
// The walker:
//   - Requests pages 1..MaxPages in order
//   - Hands each body to the callback before requesting the next page
//   - Stops at the first fetch or callback error (no retry, no partial data)
//   - Logs progress per page
package pagination
