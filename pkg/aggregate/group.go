package aggregate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/acoustic-content-samples/traveler-content-client/pkg/aggregate")

// Report summarizes a finished Group.
type Report struct {
	ID         string
	Load       string
	Operations int
	Failed     []string
	Duration   time.Duration
}

// OK reports whether every operation succeeded.
func (r Report) OK() bool {
	return len(r.Failed) == 0
}

// Err returns an error naming the failed operations, or nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%s load %s: %d of %d operations failed: %s",
		r.Load, r.ID, len(r.Failed), r.Operations, strings.Join(r.Failed, ", "))
}

// Group joins a set of operations that may grow while it runs.
// A failing operation does not cancel the others.
type Group struct {
	id     string
	load   string
	ctx    context.Context
	span   trace.Span
	start  time.Time
	logger zerolog.Logger
	eg     errgroup.Group

	mu     sync.Mutex
	ops    int
	failed []string

	waitOnce sync.Once
	report   Report
}

// NewGroup creates a group for one aggregate load. Operations run with a
// context derived from ctx.
func NewGroup(ctx context.Context, load string, logger zerolog.Logger) *Group {
	id := uuid.NewString()
	ctx, span := tracer.Start(ctx, "aggregate."+load, trace.WithAttributes(
		attribute.String("aggregate.id", id),
	))
	return &Group{
		id:     id,
		load:   load,
		ctx:    ctx,
		span:   span,
		start:  time.Now(),
		logger: logger.With().Str("load", load).Str("group_id", id).Logger(),
	}
}

// ID returns the group's correlation id.
func (g *Group) ID() string {
	return g.id
}

// Go starts fn in a new goroutine. fn may call Go on g to start dependent
// operations; they are joined by the same Wait. Go must not be called after
// Wait has returned.
func (g *Group) Go(name string, fn func(ctx context.Context, g *Group) error) {
	g.mu.Lock()
	g.ops++
	g.mu.Unlock()

	g.eg.Go(func() error {
		ctx, span := tracer.Start(g.ctx, name)
		defer span.End()

		err := fn(ctx, g)
		if err != nil {
			g.mu.Lock()
			g.failed = append(g.failed, name)
			g.mu.Unlock()

			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			g.logger.Warn().Err(err).Str("operation", name).Msg("Aggregate operation failed")
		}
		return err
	})
}

// Wait blocks until every operation has finished and returns the report.
// The report is computed once; later calls return the same value.
func (g *Group) Wait() Report {
	g.waitOnce.Do(func() {
		_ = g.eg.Wait()

		g.mu.Lock()
		g.report = Report{
			ID:         g.id,
			Load:       g.load,
			Operations: g.ops,
			Failed:     append([]string(nil), g.failed...),
			Duration:   time.Since(g.start),
		}
		g.mu.Unlock()

		result := "complete"
		if !g.report.OK() {
			result = "partial"
			g.span.SetStatus(codes.Error, "partial")
		}
		g.span.SetAttributes(
			attribute.Int("aggregate.operations", g.report.Operations),
			attribute.Int("aggregate.failed", len(g.report.Failed)),
		)
		g.span.End()

		LoadsTotal.WithLabelValues(g.load, result).Inc()
		LoadDuration.WithLabelValues(g.load).Observe(g.report.Duration.Seconds())

		g.logger.Info().
			Int("operations", g.report.Operations).
			Strs("failed", g.report.Failed).
			Dur("duration", g.report.Duration).
			Msg("Aggregate load complete")
	})
	return g.report
}
