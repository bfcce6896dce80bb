package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by backend layer ("memory", "redis").
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_cache_hits_total",
			Help: "Total number of delivery response cache hits",
		},
		[]string{"layer"},
	)

	// CacheMisses tracks cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_cache_misses_total",
			Help: "Total number of delivery response cache misses",
		},
	)

	// CacheBytesWritten counts encoded entry bytes stored per backend layer.
	CacheBytesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_cache_bytes_written_total",
			Help: "Total bytes of encoded entries written to the delivery response cache",
		},
		[]string{"layer"},
	)

	// CacheErrors tracks cache operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)

	// ConditionalRequestsSent tracks revalidation requests.
	ConditionalRequestsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_conditional_requests_total",
			Help: "Total number of conditional requests sent with If-None-Match or If-Modified-Since",
		},
	)

	// NotModifiedResponses tracks 304 Not Modified responses.
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "delivery_304_responses_total",
			Help: "Total number of 304 Not Modified responses",
		},
	)
)
