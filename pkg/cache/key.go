package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CacheKey identifies a cached page response.
type CacheKey struct {
	// Host is the API host (e.g., "api.github.com")
	Host string

	// Endpoint is the request path (e.g., "/search/repositories")
	Endpoint string

	// QueryParams are the query parameters (e.g., {"q": "topic:awesome", "page": "1"})
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: awesome:host:endpoint:query1=val1:query2=val2
// Query keys and values are query-escaped so ':' only separates parts.
//
// Example:
//
//	awesome:api.github.com:search/repositories:page=1:q=topic%3Aawesome
func (k CacheKey) String() string {
	parts := []string{"awesome"}

	if k.Host != "" {
		parts = append(parts, strings.ToLower(k.Host))
	}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Sorted for determinism
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", url.QueryEscape(key), url.QueryEscape(k.QueryParams.Get(key))))
		}
	}

	return strings.Join(parts, ":")
}

// KeyFromURL builds the cache key for a request URL.
func KeyFromURL(u *url.URL) CacheKey {
	return CacheKey{
		Host:        u.Host,
		Endpoint:    u.Path,
		QueryParams: u.Query(),
	}
}
