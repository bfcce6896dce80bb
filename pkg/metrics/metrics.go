// Package metrics exposes the Prometheus registry and HTTP handler for the
// delivery client. Metrics are defined in their own packages (client, cache,
// pagination, datasource, aggregate) and registered via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the delivery client.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer matching Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves every registered metric in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - delivery_cache_hits_total{layer} (Counter): Cache hits by backend ("memory", "redis")
//   - delivery_cache_misses_total (Counter): Cache misses
//   - delivery_cache_bytes_written_total{layer} (Counter): Bytes written to the cache
//   - delivery_cache_errors_total{operation} (Counter): Cache operation errors
//   - delivery_conditional_requests_total (Counter): Revalidations sent with If-None-Match/If-Modified-Since
//   - delivery_304_responses_total (Counter): 304 Not Modified responses
//
// Request Metrics (pkg/client):
//   - delivery_requests_total{status} (Counter): Requests by HTTP status
//   - delivery_request_duration_seconds (Histogram): Request duration
//   - delivery_errors_total{class} (Counter): Errors by class (client, server, network)
//   - delivery_retries_total{error_class} (Counter): Retry attempts
//   - delivery_retry_backoff_seconds{error_class} (Histogram): Backoff before each retry
//   - delivery_retry_exhausted_total{error_class} (Counter): Requests that used every attempt
//   - delivery_circuit_breaker_state (Gauge): 0 closed, 1 half-open, 2 open
//   - delivery_cancelled_requests_total (Counter): In-flight requests cancelled by URL
//
// Paging Metrics (pkg/pagination, pkg/datasource):
//   - delivery_fetches_total{kind, result} (Counter): Page fetches by record kind and outcome
//   - delivery_records_total{kind} (Counter): Distinct records accumulated
//   - delivery_documents_dropped_total{kind} (Counter): Documents that failed to decode
//   - delivery_category_cache_hits_total{kind} (Counter): Category lookups served from loaded records
//
// Aggregate Metrics (pkg/aggregate):
//   - delivery_aggregate_loads_total{load, result} (Counter): Loads by name, "complete" or "partial"
//   - delivery_aggregate_load_duration_seconds{load} (Histogram): Load duration
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(delivery_cache_hits_total[5m])) /
//   (sum(rate(delivery_cache_hits_total[5m])) + sum(rate(delivery_cache_misses_total[5m])))
//
//   # Dropped Documents
//   sum by (kind) (rate(delivery_documents_dropped_total[15m]))
//
//   # Partial Page Loads
//   rate(delivery_aggregate_loads_total{result="partial"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(delivery_request_duration_seconds_bucket[5m]))
