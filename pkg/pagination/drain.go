package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/acoustic-content-samples/traveler-content-client/pkg/content"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/query"
)

// DrainConfig bounds Drain.
type DrainConfig struct {
	// MaxPages caps the number of requests, first page included.
	MaxPages int

	// PageTimeout bounds each page request.
	PageTimeout time.Duration
}

// DefaultDrainConfig returns the default drain limits.
func DefaultDrainConfig() DrainConfig {
	return DrainConfig{
		MaxPages:    50,
		PageTimeout: 15 * time.Second,
	}
}

// Drain fetches spec and then follows NextPage until the fetcher reports no
// more pages or MaxPages is reached. It returns the accumulated records; on
// error the records gathered so far are returned with it.
func Drain[T content.Record](ctx context.Context, f *Fetcher[T], spec query.Spec, config DrainConfig) ([]T, error) {
	if config.MaxPages <= 0 {
		config.MaxPages = DefaultDrainConfig().MaxPages
	}
	if config.PageTimeout <= 0 {
		config.PageTimeout = DefaultDrainConfig().PageTimeout
	}

	start := time.Now()

	page := func(fn func(ctx context.Context) ([]T, error)) error {
		pageCtx, cancel := context.WithTimeout(ctx, config.PageTimeout)
		defer cancel()
		_, err := fn(pageCtx)
		return err
	}

	if err := page(func(ctx context.Context) ([]T, error) { return f.Fetch(ctx, spec) }); err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}

	pages := 1
	for f.CanFetchNextPage() && pages < config.MaxPages {
		if err := page(f.NextPage); err != nil {
			f.logger.Warn().
				Err(err).
				Int("pages", pages).
				Int("records", f.Len()).
				Msg("Drain stopped - returning partial results")
			return f.Records(), fmt.Errorf("page %d (partial data: %d records): %w", pages+1, f.Len(), err)
		}
		pages++

		if pages%10 == 0 {
			total, _ := f.TotalFound()
			f.logger.Info().
				Int("fetched", f.Len()).
				Int("total", total).
				Msg("Drain progress")
		}
	}

	if f.CanFetchNextPage() {
		f.logger.Warn().Int("max_pages", config.MaxPages).Msg("Reached max pages limit")
	}

	f.logger.Debug().
		Int("pages", pages).
		Int("records", f.Len()).
		Dur("duration", time.Since(start)).
		Msg("Drain complete")

	return f.Records(), nil
}
