// Package metrics holds the Prometheus registry reference for the Entrez
// client. Metrics are defined in their owning packages (client, cache,
// ratelimit) via promauto to keep them next to the code that drives them;
// this package documents the full catalog in one place.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the Prometheus registerer the client's metrics attach to.
// Every metric below registers itself via promauto on package init.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - entrez_rate_limit_grants_total (Counter): Grants issued by the sliding window
//   - entrez_rate_limit_wait_seconds (Histogram): Time spent waiting for a grant
//   - entrez_rate_limit_cancels_total (Counter): Waits abandoned by context cancellation
//
// Cache Metrics (pkg/cache):
//   - entrez_cache_hits_total{layer} (Counter): Cache hits by backend (memory, redis, sqlite)
//   - entrez_cache_misses_total (Counter): Cache misses, including expired entries
//   - entrez_cache_evictions_total (Counter): Entries evicted from the bounded memory cache
//   - entrez_cache_errors_total{operation} (Counter): Backend failures by operation
//
// Request Metrics (pkg/client):
//   - entrez_requests_total{op, status} (Counter): Requests by endpoint and HTTP status
//   - entrez_request_duration_seconds{op} (Histogram): Request duration by endpoint
//   - entrez_errors_total{kind} (Counter): Terminal errors by taxonomy kind
//
// Retry Metrics (pkg/client):
//   - entrez_retries_total{kind} (Counter): Retry attempts by error kind
//   - entrez_retry_backoff_seconds (Histogram): Backoff delay before each retry
//   - entrez_retry_exhausted_total (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache hit rate
//   sum(rate(entrez_cache_hits_total[5m])) /
//   (sum(rate(entrez_cache_hits_total[5m])) + sum(rate(entrez_cache_misses_total[5m])))
//
//   # Terminal error rate by kind
//   rate(entrez_errors_total[5m])
//
//   # P95 request latency
//   histogram_quantile(0.95, rate(entrez_request_duration_seconds_bucket[5m]))
//
//   # Share of time spent waiting on the rate limiter
//   rate(entrez_rate_limit_wait_seconds_sum[5m])
