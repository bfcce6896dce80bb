package aggregate

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"

	"github.com/acoustic-content-samples/traveler-content-client/pkg/content"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/datasource"
	"github.com/rs/zerolog"
)

// ErrNoRegionCategory is returned for a region whose country list has no
// hierarchical category.
var ErrNoRegionCategory = errors.New("region has no category")

// DestinationsView is the content of the destinations page.
type DestinationsView struct {
	Destinations *content.Destinations `json:"destinations"`
	Regions      []content.Region      `json:"regions"`
}

// DestinationsLoader loads the destinations document and one region lookup
// per region category it lists. The region and country sources are shared
// with other loads and outlive this loader.
type DestinationsLoader struct {
	destinations *datasource.Destinations
	regions      *datasource.Regions
	countries    *datasource.Countries
	logger       zerolog.Logger
}

// NewDestinationsLoader creates a destinations loader.
func NewDestinationsLoader(destinations *datasource.Destinations, regions *datasource.Regions, countries *datasource.Countries, logger zerolog.Logger) *DestinationsLoader {
	return &DestinationsLoader{
		destinations: destinations,
		regions:      regions,
		countries:    countries,
		logger:       logger,
	}
}

// Load reloads the destinations page. Cached countries and the destinations
// document are dropped first; cached regions are kept. Regions are ordered
// by the position of their category in the destinations region list.
func (l *DestinationsLoader) Load(ctx context.Context) (DestinationsView, Report) {
	l.countries.Clear()
	l.destinations.Clear()

	var (
		mu      sync.Mutex
		regions []content.Region
	)

	g := NewGroup(ctx, "destinations", l.logger)
	g.Go("destinations", func(ctx context.Context, g *Group) error {
		doc, err := l.destinations.Get(ctx)
		if err != nil {
			return err
		}

		for _, category := range doc.RegionList.Categories {
			g.Go("region "+category, func(ctx context.Context, _ *Group) error {
				found, err := l.regions.Get(ctx, category)
				mu.Lock()
				regions = append(regions, found...)
				mu.Unlock()
				return err
			})
		}
		return nil
	})
	report := g.Wait()

	var view DestinationsView
	if doc, ok := l.destinations.Current(); ok {
		view.Destinations = &doc
		view.Regions = orderRegions(uniqueRegions(regions), doc.RegionList.Categories)
	}
	return view, report
}

// Countries returns the countries of region from the shared country source.
func (l *DestinationsLoader) Countries(ctx context.Context, region content.Region) ([]content.Country, error) {
	category := region.RegionCategory()
	if category == "" {
		return nil, ErrNoRegionCategory
	}
	return l.countries.Get(ctx, category)
}

// CountriesFor returns the countries tagged with category.
func (l *DestinationsLoader) CountriesFor(ctx context.Context, category string) ([]content.Country, error) {
	return l.countries.Get(ctx, category)
}

// uniqueRegions drops repeated ids. Overlapping categories can return the
// same region from more than one lookup.
func uniqueRegions(regions []content.Region) []content.Region {
	seen := make(map[string]bool, len(regions))
	out := regions[:0]
	for _, r := range regions {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

// orderRegions sorts regions by the index of their region category in
// order. Unknown categories sort as index 0.
func orderRegions(regions []content.Region, order []string) []content.Region {
	index := func(r content.Region) int {
		if i := slices.Index(order, r.RegionCategory()); i >= 0 {
			return i
		}
		return 0
	}
	sort.SliceStable(regions, func(i, j int) bool {
		return index(regions[i]) < index(regions[j])
	})
	return regions
}
