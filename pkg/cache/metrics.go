package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backend layer labels.
const (
	layerMemory = "memory"
	layerRedis  = "redis"
	layerSQLite = "sqlite"
)

var (
	// cacheHits tracks cache hits by backend layer.
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entrez_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"layer"},
	)

	// cacheMisses tracks cache misses, including lazy expiry evictions.
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entrez_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// cacheEvictions tracks size-bound evictions from the memory store.
	cacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entrez_cache_evictions_total",
			Help: "Total number of entries evicted to respect the size bound",
		},
	)

	// cacheErrors tracks backend operation errors.
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entrez_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"},
	)
)
