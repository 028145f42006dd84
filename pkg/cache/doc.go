// Package cache stores search result pages in Redis so later runs can
// revalidate them with conditional requests.
//
// Every page request is still sent. When a cached entry exists for the page,
// the request carries If-None-Match (ETag) or If-Modified-Since, and a
// 304 Not Modified answer is served from the cached body.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, cache.DefaultRetention)
//
//	key := cache.CacheKey{
//		Host:        "api.github.com",
//		Endpoint:    "/search/repositories",
//		QueryParams: url.Values{"q": []string{"topic:awesome"}, "page": []string{"1"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// plain request
//	}
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//	}
//
// # Metrics
//
//   - awesome_cache_hits_total - Entries found for a page
//   - awesome_cache_misses_total - Pages with no entry
//   - awesome_cache_conditional_requests_total - Requests sent with validators
//   - awesome_cache_not_modified_total - 304 answers served from cache
//   - awesome_cache_errors_total{operation} - Redis or decoding failures
package cache
