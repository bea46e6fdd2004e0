package aps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
	"github.com/techforall-fr/202510-ClashReporter/pkg/decode"
	"github.com/techforall-fr/202510-ClashReporter/pkg/metrics"
)

var tracer = otel.Tracer("clashreporter.aps")

// Resource type markers used to pick the three feeds of a clash test.
const (
	clashResourceMarker    = "scope-version-clash."
	instanceResourceMarker = "scope-version-clash-instance."
	documentResourceMarker = "scope-version-document."
)

// Batch outcome labels.
const (
	batchJoined         = "joined"
	batchMissingFeed    = "missing_resource"
	batchFailedDownload = "failed"
)

// Fetcher is the upstream surface the live source depends on.
type Fetcher interface {
	LatestVersion(ctx context.Context) (*ModelSetVersion, error)
	ClashTests(ctx context.Context, version int) ([]ClashTest, error)
	TestResources(ctx context.Context, testID string) ([]Resource, error)
	FetchResource(ctx context.Context, url string) ([]byte, error)
}

// Source reconstructs clashes from the latest successful clash tests of a
// model set. It implements clashes.Source.
type Source struct {
	fetcher Fetcher
	joiner  *clashes.Joiner
	logger  *slog.Logger
}

// NewSource creates a live clash source.
func NewSource(fetcher Fetcher, joiner *clashes.Joiner, logger *slog.Logger) *Source {
	return &Source{
		fetcher: fetcher,
		joiner:  joiner,
		logger:  logger.With("source", "aps"),
	}
}

// FetchClashes walks the latest model set version and joins the feeds of
// every successful clash test. Results of separate tests are concatenated
// in test order. A test whose resources are missing or cannot be decoded is
// skipped. Failing to reach the version or test listing, or failing every
// successful test, returns ErrSourceUnavailable.
func (s *Source) FetchClashes(ctx context.Context) ([]clashes.Clash, error) {
	ctx, span := tracer.Start(ctx, "aps.fetch_clashes")
	defer span.End()

	version, err := s.fetcher.LatestVersion(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "latest version")
		return nil, fmt.Errorf("%w: latest version: %w", ErrSourceUnavailable, err)
	}

	span.SetAttributes(
		attribute.Int("aps.version", version.Version),
		attribute.String("aps.version_status", version.Status),
	)

	if version.Status != VersionSuccessful {
		s.logger.Warn("latest model set version not ready",
			"version", version.Version,
			"status", version.Status,
		)
		return []clashes.Clash{}, nil
	}

	tests, err := s.fetcher.ClashTests(ctx, version.Version)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "clash tests")
		return nil, fmt.Errorf("%w: clash tests: %w", ErrSourceUnavailable, err)
	}

	all := []clashes.Clash{}
	attempted, joined := 0, 0
	for _, test := range tests {
		if test.Status != TestSuccess {
			s.logger.Debug("skipping clash test", "test_id", test.ID, "status", test.Status)
			continue
		}

		attempted++
		batch, err := s.batch(ctx, test.ID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, ctxErr)
			}
			s.logger.Warn("skipping clash test batch", "test_id", test.ID, "error", err)
			continue
		}
		joined++
		all = append(all, batch...)
	}

	if attempted > 0 && joined == 0 {
		err := fmt.Errorf("%w: no clash test batch could be decoded", ErrSourceUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, "batches")
		return nil, err
	}

	span.SetAttributes(attribute.Int("clashes.count", len(all)))
	s.logger.Info("clash tests joined",
		"version", version.Version,
		"tests", len(tests),
		"clashes", len(all),
	)

	return all, nil
}

var errMissingResource = errors.New("missing clash test resource")

// resourceSet holds the download URLs of the three feeds of a clash test.
type resourceSet struct {
	clash    string
	instance string
	document string
}

// pickResources selects the feed URLs by resource type. The first match of
// each kind wins.
func pickResources(resources []Resource) (resourceSet, error) {
	var set resourceSet
	for _, r := range resources {
		switch {
		case strings.Contains(r.Type, instanceResourceMarker):
			if set.instance == "" {
				set.instance = r.URL
			}
		case strings.Contains(r.Type, clashResourceMarker) && !strings.Contains(r.Type, "instance"):
			if set.clash == "" {
				set.clash = r.URL
			}
		case strings.Contains(r.Type, documentResourceMarker):
			if set.document == "" {
				set.document = r.URL
			}
		}
	}

	var missing []string
	if set.clash == "" {
		missing = append(missing, "clash")
	}
	if set.instance == "" {
		missing = append(missing, "instance")
	}
	if set.document == "" {
		missing = append(missing, "document")
	}
	if len(missing) > 0 {
		return set, fmt.Errorf("%w: %s", errMissingResource, strings.Join(missing, ", "))
	}
	return set, nil
}

func (s *Source) batch(ctx context.Context, testID string) ([]clashes.Clash, error) {
	ctx, span := tracer.Start(ctx, "aps.clash_test")
	defer span.End()
	span.SetAttributes(attribute.String("aps.test_id", testID))

	resources, err := s.fetcher.TestResources(ctx, testID)
	if err != nil {
		metrics.BatchesTotal.WithLabelValues(batchFailedDownload).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "resources")
		return nil, fmt.Errorf("list resources: %w", err)
	}

	set, err := pickResources(resources)
	if err != nil {
		metrics.BatchesTotal.WithLabelValues(batchMissingFeed).Inc()
		span.SetStatus(codes.Error, "missing resource")
		return nil, err
	}

	var (
		clashFeed    clashes.ClashFeed
		instanceFeed clashes.InstanceFeed
		documentFeed clashes.DocumentFeed
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.load(gctx, "clash", set.clash, &clashFeed) })
	g.Go(func() error { return s.load(gctx, "instance", set.instance, &instanceFeed) })
	g.Go(func() error { return s.load(gctx, "document", set.document, &documentFeed) })

	if err := g.Wait(); err != nil {
		metrics.BatchesTotal.WithLabelValues(batchFailedDownload).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "download")
		return nil, err
	}

	result := s.joiner.Join(clashFeed, instanceFeed, documentFeed)
	for reason, n := range result.SkipCounts() {
		metrics.JoinSkipsTotal.WithLabelValues(string(reason)).Add(float64(n))
	}
	metrics.BatchesTotal.WithLabelValues(batchJoined).Inc()

	if len(result.Skipped) > 0 {
		s.logger.Info("clash records skipped",
			"test_id", testID,
			"skipped", len(result.Skipped),
		)
	}

	span.SetAttributes(
		attribute.Int("clashes.count", len(result.Clashes)),
		attribute.Int("clashes.skipped", len(result.Skipped)),
	)

	return result.Clashes, nil
}

func (s *Source) load(ctx context.Context, feed, url string, v any) error {
	data, err := s.fetcher.FetchResource(ctx, url)
	if err != nil {
		return fmt.Errorf("download %s feed: %w", feed, err)
	}
	if err := decode.Into(data, v); err != nil {
		return fmt.Errorf("%s feed: %w", feed, err)
	}
	return nil
}
