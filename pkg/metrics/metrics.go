// Package metrics provides the centralized Prometheus metrics registry for
// the board widget. All metrics are defined in their respective packages
// (api, cache) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the board widget.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/api):
//   - board_api_requests_total{endpoint, status} (Counter): Total board API requests by endpoint and HTTP status
//   - board_api_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - board_api_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Snapshot Cache Metrics (pkg/cache):
//   - board_snapshot_cache_hits_total (Counter): Snapshot cache hits
//   - board_snapshot_cache_misses_total (Counter): Snapshot cache misses
//   - board_snapshot_cache_size_bytes (Gauge): Bytes written to the snapshot cache
//   - board_snapshot_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Snapshot Cache Hit Rate
//   sum(rate(board_snapshot_cache_hits_total[5m])) /
//   (sum(rate(board_snapshot_cache_hits_total[5m])) + sum(rate(board_snapshot_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(board_api_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(board_api_request_duration_seconds_bucket[5m]))
