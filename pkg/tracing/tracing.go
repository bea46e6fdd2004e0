// Package tracing installs the OpenTelemetry tracer provider that backs the
// spans started across the service.
package tracing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/techforall-fr/202510-ClashReporter/pkg/lifecycle"
)

const shutdownTimeout = 5 * time.Second

// Resource identifies the running service on exported spans.
type Resource struct {
	Version     string
	Environment string
}

// Provider owns the SDK tracer provider registered as the otel global.
type Provider struct {
	tp     *sdktrace.TracerProvider
	logger *slog.Logger
}

// New builds the exporter selected by cfg and registers a tracer provider
// with it. It returns nil when cfg disables tracing.
func New(ctx context.Context, cfg *Config, res Resource, logger *slog.Logger) (*Provider, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	exp, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s exporter: %w", cfg.Exporter, err)
	}

	p := NewWithExporter(cfg, exp, res, logger)
	p.logger.Info("tracing initialized", "exporter", cfg.Exporter, "endpoint", cfg.Endpoint, "sample_ratio", cfg.SampleRatio)
	return p, nil
}

// NewWithExporter registers a tracer provider that batches spans to exp.
func NewWithExporter(cfg *Config, exp sdktrace.SpanExporter, res Resource, logger *slog.Logger) *Provider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", res.Version),
			attribute.String("deployment.environment", res.Environment),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{
		tp:     tp,
		logger: logger.With("system", "tracing"),
	}
}

// Tracer returns a named tracer from the provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tp.Tracer(name)
}

// Flush exports every span that has ended.
func (p *Provider) Flush(ctx context.Context) error {
	return p.tp.ForceFlush(ctx)
}

// Shutdown flushes pending spans and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}

// Start registers provider shutdown with the lifecycle coordinator.
func (p *Provider) Start(lc *lifecycle.Coordinator) {
	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := p.Shutdown(ctx); err != nil {
			p.logger.Error("tracing shutdown failed", "error", err)
			return
		}
		p.logger.Info("tracing stopped")
	})
}

func newExporter(ctx context.Context, cfg *Config) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterStdout:
		return stdouttrace.New()
	case ExporterOTLP:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported exporter %q", cfg.Exporter)
	}
}
