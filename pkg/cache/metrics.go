package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks pages with a cached entry
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "awesome_cache_hits_total",
			Help: "Total number of page cache hits",
		},
	)

	// CacheMisses tracks pages without a cached entry
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "awesome_cache_misses_total",
			Help: "Total number of page cache misses",
		},
	)

	// ConditionalRequestsSent tracks requests carrying If-None-Match or If-Modified-Since
	ConditionalRequestsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "awesome_cache_conditional_requests_total",
			Help: "Total number of conditional requests sent",
		},
	)

	// NotModifiedResponses tracks 304 Not Modified responses served from cache
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "awesome_cache_not_modified_total",
			Help: "Total number of 304 Not Modified responses served from cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "awesome_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
