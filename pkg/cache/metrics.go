package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for snapshot cache operations.
var (
	// CacheHits counts snapshot cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "board_snapshot_cache_hits_total",
		Help: "Total snapshot cache hits",
	})

	// CacheMisses counts snapshot cache misses.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "board_snapshot_cache_misses_total",
		Help: "Total snapshot cache misses",
	})

	// CacheSize tracks bytes written to the snapshot cache.
	CacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "board_snapshot_cache_size_bytes",
		Help: "Bytes written to the snapshot cache",
	})

	// CacheErrors counts cache operation errors by operation.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_snapshot_cache_errors_total",
		Help: "Total snapshot cache errors by operation",
	}, []string{"operation"})
)
