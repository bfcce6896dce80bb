package aggregate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoadsTotal counts aggregate loads by load name and result
	// ("complete", "partial").
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_aggregate_loads_total",
			Help: "Total aggregate loads by load and result",
		},
		[]string{"load", "result"},
	)

	// LoadDuration observes aggregate load duration.
	LoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "delivery_aggregate_load_duration_seconds",
			Help:    "Aggregate load duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"load"},
	)
)
