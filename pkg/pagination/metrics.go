package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal counts page fetches by content kind and result
	// ("ok", "transport", "envelope", "encoding", "invalid_query").
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_fetches_total",
			Help: "Total page fetches by content kind and result",
		},
		[]string{"kind", "result"},
	)

	// RecordsTotal counts records newly added to fetchers.
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_records_total",
			Help: "Total records appended to fetchers by content kind",
		},
		[]string{"kind"},
	)

	// DocumentsDropped counts documents that did not match the record schema.
	DocumentsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delivery_documents_dropped_total",
			Help: "Total documents dropped on schema mismatch by content kind",
		},
		[]string{"kind"},
	)
)
