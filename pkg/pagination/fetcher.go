package pagination

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/acoustic-content-samples/traveler-content-client/pkg/content"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/query"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrTransport is returned when a page could not be retrieved: network
// failure, non-200 status or empty body.
var ErrTransport = errors.New("transport failure")

var tracer = otel.Tracer("github.com/acoustic-content-samples/traveler-content-client/pkg/pagination")

// Getter is the HTTP collaborator used by fetchers.
type Getter interface {
	Get(ctx context.Context, rawURL string) (body []byte, status int, err error)
}

// Fetcher accumulates the records of one content kind across pages.
type Fetcher[T content.Record] struct {
	getter  Getter
	builder *query.Builder
	decode  content.Decoder[T]
	kind    string
	logger  zerolog.Logger

	// guard holds a token while a fetch is in flight
	guard chan struct{}

	mu         sync.RWMutex
	records    []T
	index      map[string]int
	totalFound int
	known      bool
	lastSpec   query.Spec
}

// New creates a fetcher for one content kind. kind labels logs and metrics.
func New[T content.Record](getter Getter, builder *query.Builder, kind string, decode content.Decoder[T], logger zerolog.Logger) *Fetcher[T] {
	if getter == nil {
		panic("pagination getter cannot be nil")
	}
	if builder == nil {
		builder = query.Default()
	}
	return &Fetcher[T]{
		getter:  getter,
		builder: builder,
		decode:  decode,
		kind:    kind,
		logger:  logger.With().Str("kind", kind).Logger(),
		guard:   make(chan struct{}, 1),
		index:   make(map[string]int),
	}
}

// Kind returns the content kind label.
func (f *Fetcher[T]) Kind() string {
	return f.kind
}

// Fetch requests one page described by spec and returns every record
// decoded from the response, including ids already accumulated. Only new
// ids are appended to Records.
func (f *Fetcher[T]) Fetch(ctx context.Context, spec query.Spec) ([]T, error) {
	if err := f.acquire(ctx); err != nil {
		return nil, err
	}
	defer f.release()

	return f.fetch(ctx, spec)
}

// FetchNext builds a spec whose offset is the number of accumulated
// records and fetches it. The offset is read after waiting for any fetch
// in flight.
func (f *Fetcher[T]) FetchNext(ctx context.Context, build func(start int) query.Spec) ([]T, error) {
	if err := f.acquire(ctx); err != nil {
		return nil, err
	}
	defer f.release()

	return f.fetch(ctx, build(f.Len()))
}

// NextPage fetches the page following the accumulated records with the
// filters of the last successful Fetch. It returns (nil, nil) without I/O
// when CanFetchNextPage is false.
func (f *Fetcher[T]) NextPage(ctx context.Context) ([]T, error) {
	if err := f.acquire(ctx); err != nil {
		return nil, err
	}
	defer f.release()

	f.mu.RLock()
	can := f.canFetchNextPage()
	spec := f.lastSpec.WithStart(len(f.records))
	f.mu.RUnlock()

	if !can {
		return nil, nil
	}
	return f.fetch(ctx, spec)
}

// CanFetchNextPage reports whether a successful fetch has reported a total
// larger than the number of accumulated records.
func (f *Fetcher[T]) CanFetchNextPage() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.canFetchNextPage()
}

func (f *Fetcher[T]) canFetchNextPage() bool {
	return f.known && len(f.records) < f.totalFound
}

// Records returns a copy of the accumulated records in first-seen order.
func (f *Fetcher[T]) Records() []T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]T, len(f.records))
	copy(out, f.records)
	return out
}

// Len returns the number of accumulated records.
func (f *Fetcher[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.records)
}

// TotalFound returns the total reported by the last successful fetch;
// ok is false until one has completed.
func (f *Fetcher[T]) TotalFound() (total int, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.totalFound, f.known
}

// Cached returns the accumulated records for which match is true.
func (f *Fetcher[T]) Cached(match func(T) bool) []T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []T
	for _, r := range f.records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Clear forgets accumulated records and the reported total. A fetch in
// flight is not cancelled and appends into the cleared state.
func (f *Fetcher[T]) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = nil
	f.index = make(map[string]int)
	f.totalFound = 0
	f.known = false
	f.lastSpec = query.Spec{}
}

func (f *Fetcher[T]) acquire(ctx context.Context) error {
	select {
	case f.guard <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fetcher[T]) release() {
	<-f.guard
}

// fetch runs one page request. The caller holds the guard.
func (f *Fetcher[T]) fetch(ctx context.Context, spec query.Spec) ([]T, error) {
	ctx, span := tracer.Start(ctx, "pagination.Fetch", trace.WithAttributes(
		attribute.String("content.kind", f.kind),
		attribute.Int("page.start", spec.Start),
		attribute.Int("page.rows", spec.Rows),
	))
	defer span.End()

	fail := func(result string, err error) ([]T, error) {
		FetchesTotal.WithLabelValues(f.kind, result).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		f.logger.Warn().Err(err).Int("start", spec.Start).Msg("Page fetch failed")
		return nil, err
	}

	u, err := f.builder.URL(spec)
	if err != nil {
		return fail("invalid_query", err)
	}

	body, status, err := f.getter.Get(ctx, u.String())
	switch {
	case err != nil:
		return fail("transport", fmt.Errorf("%w: %w", ErrTransport, err))
	case status != http.StatusOK:
		return fail("transport", fmt.Errorf("%w: status %d", ErrTransport, status))
	case len(body) == 0:
		return fail("transport", fmt.Errorf("%w: empty body", ErrTransport))
	}

	env, err := content.ParseEnvelope(body)
	if err != nil {
		return fail("envelope", err)
	}

	batch, dropped, err := content.DecodeDocuments(env.Documents, f.decode)
	if err != nil {
		return fail("encoding", err)
	}
	if dropped > 0 {
		DocumentsDropped.WithLabelValues(f.kind).Add(float64(dropped))
		f.logger.Debug().Int("dropped", dropped).Msg("Documents did not match schema")
	}

	added := f.merge(batch, env.NumFound, spec)

	FetchesTotal.WithLabelValues(f.kind, "ok").Inc()
	RecordsTotal.WithLabelValues(f.kind).Add(float64(added))
	span.SetAttributes(
		attribute.Int("page.decoded", len(batch)),
		attribute.Int("page.added", added),
		attribute.Int("page.num_found", env.NumFound),
	)

	f.logger.Debug().
		Int("start", spec.Start).
		Int("decoded", len(batch)).
		Int("added", added).
		Int("num_found", env.NumFound).
		Msg("Page fetched")

	return batch, nil
}

// merge appends unseen ids in arrival order and records the total.
func (f *Fetcher[T]) merge(batch []T, numFound int, spec query.Spec) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	added := 0
	for _, record := range batch {
		id := record.RecordID()
		if _, seen := f.index[id]; seen {
			continue
		}
		f.index[id] = len(f.records)
		f.records = append(f.records, record)
		added++
	}
	f.totalFound = numFound
	f.known = true
	f.lastSpec = spec
	return added
}
