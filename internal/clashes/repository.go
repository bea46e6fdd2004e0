package clashes

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/techforall-fr/202510-ClashReporter/pkg/metrics"
	"github.com/techforall-fr/202510-ClashReporter/pkg/pagination"
)

var tracer = otel.Tracer("clashreporter.clashes")

const refreshKey = "refresh"

type snapshot struct {
	clashes []Clash
	index   map[string]int
	info    Info
}

func newSnapshot(clashes []Clash, origin Origin, at time.Time) *snapshot {
	index := make(map[string]int, len(clashes))
	for i, c := range clashes {
		if _, ok := index[c.ID]; !ok {
			index[c.ID] = i
		}
	}
	return &snapshot{
		clashes: clashes,
		index:   index,
		info: Info{
			Origin:      origin,
			Count:       len(clashes),
			RefreshedAt: at,
		},
	}
}

type repo struct {
	source     Source
	generator  *Generator
	mockCount  int
	logger     *slog.Logger
	pagination pagination.Config

	current    atomic.Pointer[snapshot]
	generation atomic.Uint64
	flight     singleflight.Group
}

// New creates a clash repository implementing the System interface.
// A nil source runs in mock mode and serves synthetic data only.
func New(
	source Source,
	generator *Generator,
	mockCount int,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	if generator == nil {
		generator = NewGenerator(nil)
	}
	if mockCount <= 0 {
		mockCount = DefaultMockCount
	}
	return &repo{
		source:     source,
		generator:  generator,
		mockCount:  mockCount,
		logger:     logger.With("system", "clashes"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) GetAll(ctx context.Context, forceRefresh bool) ([]Clash, error) {
	return r.collection(ctx, forceRefresh).clashes, nil
}

func (r *repo) List(ctx context.Context, filter Filter) (*Page, error) {
	filter.Normalize(r.pagination)

	all, err := r.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}

	page := Query(all, filter)
	return &page, nil
}

func (r *repo) Find(ctx context.Context, id string) (*Clash, error) {
	s := r.collection(ctx, false)

	i, ok := s.index[id]
	if !ok {
		return nil, ErrNotFound
	}

	c := s.clashes[i]
	return &c, nil
}

func (r *repo) Refresh(ctx context.Context) (Info, error) {
	s := r.refresh(ctx)
	return s.info, nil
}

func (r *repo) Invalidate() {
	r.generation.Add(1)
	r.current.Store(nil)
	r.flight.Forget(refreshKey)
	metrics.CachedClashes.Set(0)
	r.logger.Info("clash cache invalidated")
}

func (r *repo) Info() Info {
	if s := r.current.Load(); s != nil {
		return s.info
	}
	return Info{}
}

func (r *repo) collection(ctx context.Context, forceRefresh bool) *snapshot {
	if !forceRefresh {
		if s := r.current.Load(); s != nil {
			return s
		}
	}
	return r.refresh(ctx)
}

// refresh collapses concurrent callers onto a single load. The load runs
// detached from the caller's cancellation so one disconnecting client does
// not fail every waiter.
func (r *repo) refresh(ctx context.Context) *snapshot {
	v, _, _ := r.flight.Do(refreshKey, func() (any, error) {
		gen := r.generation.Load()
		s := r.load(context.WithoutCancel(ctx))
		if r.generation.Load() == gen {
			r.current.Store(s)
			metrics.CachedClashes.Set(float64(len(s.clashes)))
		}
		return s, nil
	})
	return v.(*snapshot)
}

func (r *repo) load(ctx context.Context) *snapshot {
	ctx, span := tracer.Start(ctx, "clashes.refresh")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}()

	if r.source == nil {
		r.logger.Info("using synthetic clashes", "reason", "mock mode", "count", r.mockCount)
		return r.synthetic(span, OriginMock)
	}

	r.logger.Info("fetching clashes from live source")
	clashes, err := r.source.FetchClashes(ctx)
	if err != nil {
		r.logger.Error("live source unavailable, falling back to synthetic clashes", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "live source unavailable")
		return r.synthetic(span, OriginFallback)
	}

	if clashes == nil {
		clashes = []Clash{}
	}

	metrics.RefreshTotal.WithLabelValues(string(OriginLive)).Inc()
	span.SetAttributes(
		attribute.String("clashes.origin", string(OriginLive)),
		attribute.Int("clashes.count", len(clashes)),
	)
	r.logger.Info("clashes refreshed", "origin", OriginLive, "count", len(clashes), "duration", time.Since(start))

	return newSnapshot(clashes, OriginLive, time.Now().UTC())
}

func (r *repo) synthetic(span trace.Span, origin Origin) *snapshot {
	clashes := r.generator.Generate(r.mockCount)

	metrics.RefreshTotal.WithLabelValues(string(origin)).Inc()
	span.SetAttributes(
		attribute.String("clashes.origin", string(origin)),
		attribute.Int("clashes.count", len(clashes)),
	)

	return newSnapshot(clashes, origin, time.Now().UTC())
}
