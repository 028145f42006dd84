// Package metrics exposes the Prometheus metrics of a harvest run.
// All metrics are defined in their respective packages (harvest, client,
// cache, ratelimit) to maintain modularity and avoid circular dependencies.
//
// The harvester is a one-shot process, so metrics are not scraped. Instead
// they can be written once at exit in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the harvester.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer collects the registered metrics for export.
var Gatherer = prometheus.DefaultGatherer

// WriteTextfile writes all registered metrics to path in the text exposition
// format. The file is replaced atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Metrics Documentation
//
// Harvest Metrics (pkg/harvest):
//   - awesome_pages_fetched_total (Counter): Result pages fetched and decoded
//   - awesome_items_harvested_total (Counter): Items decoded across all pages
//   - awesome_harvest_errors_total{class} (Counter): Aborted harvests by class (transport, parse, field)
//   - awesome_harvest_duration_seconds (Histogram): Duration of a complete harvest
//
// Request Metrics (pkg/client):
//   - awesome_requests_total{status} (Counter): Search requests by HTTP status
//   - awesome_request_duration_seconds (Histogram): Search request duration
//   - awesome_request_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Rate Limit Metrics (pkg/ratelimit):
//   - awesome_rate_limit_remaining (Gauge): Requests remaining in the current window
//   - awesome_rate_limit_blocks_total (Counter): Requests refused with an exhausted quota
//
// Cache Metrics (pkg/cache):
//   - awesome_cache_hits_total (Counter): Pages with a cached entry
//   - awesome_cache_misses_total (Counter): Pages without a cached entry
//   - awesome_cache_conditional_requests_total (Counter): Conditional requests sent
//   - awesome_cache_not_modified_total (Counter): 304 responses served from cache
//   - awesome_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries (textfile collector):
//
//   # Items per page
//   awesome_items_harvested_total / awesome_pages_fetched_total
//
//   # Cache revalidation rate
//   awesome_cache_not_modified_total / awesome_requests_total
