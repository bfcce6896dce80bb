package datasource

import (
	"context"

	"github.com/acoustic-content-samples/traveler-content-client/pkg/content"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/pagination"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/query"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var categoryCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "delivery_category_cache_hits_total",
		Help: "Category lookups answered from accumulated records by content kind",
	},
	[]string{"kind"},
)

// CategorySource resolves records by category, answering from accumulated
// records before querying the delivery API.
type CategorySource[T content.Record] struct {
	*pagination.Fetcher[T]

	spec       func(category string) query.Spec
	categoryOf func(T) content.Category
	logger     zerolog.Logger
}

// Get returns the accumulated records whose categories contain category.
// When there are none it fetches the category and returns the fetched
// records.
func (c *CategorySource[T]) Get(ctx context.Context, category string) ([]T, error) {
	cached := c.Cached(func(record T) bool {
		return c.categoryOf(record).Contains(category)
	})
	if len(cached) > 0 {
		categoryCacheHits.WithLabelValues(c.Kind()).Inc()
		c.logger.Debug().
			Str("category", category).
			Int("records", len(cached)).
			Msg("Category served from accumulated records")
		return cached, nil
	}

	// A category with no records is fetched again on every call.
	// TODO: remember empty categories until Clear if the extra requests show up in delivery_fetches_total.
	return c.Fetch(ctx, c.spec(category))
}

// Countries resolves countries by category, sorted by name.
type Countries = CategorySource[content.Country]

// NewCountries creates a country source.
func NewCountries(getter pagination.Getter, builder *query.Builder, logger zerolog.Logger) *Countries {
	return &Countries{
		Fetcher:    pagination.New(getter, builder, "countries", content.DecodeCountry, logger),
		spec:       query.Countries,
		categoryOf: func(c content.Country) content.Category { return c.Category },
		logger:     logger.With().Str("kind", "countries").Logger(),
	}
}

// Regions resolves regions by the categories of their country list.
type Regions = CategorySource[content.Region]

// NewRegions creates a region source.
func NewRegions(getter pagination.Getter, builder *query.Builder, logger zerolog.Logger) *Regions {
	return &Regions{
		Fetcher:    pagination.New(getter, builder, "regions", content.DecodeRegion, logger),
		spec:       query.Regions,
		categoryOf: func(r content.Region) content.Category { return r.CountryList },
		logger:     logger.With().Str("kind", "regions").Logger(),
	}
}
