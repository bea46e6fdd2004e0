package tracing_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/techforall-fr/202510-ClashReporter/pkg/lifecycle"
	"github.com/techforall-fr/202510-ClashReporter/pkg/tracing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfigFinalize(t *testing.T) {
	cfg := &tracing.Config{}
	require.NoError(t, cfg.Finalize(nil))
	assert.Equal(t, tracing.ExporterNone, cfg.Exporter)
	assert.Equal(t, 1.0, cfg.SampleRatio)
	assert.Equal(t, "clashreporter", cfg.ServiceName)
	assert.False(t, cfg.Enabled())

	t.Setenv("TEST_TRACING_EXPORTER", "OTLP")
	t.Setenv("TEST_TRACING_ENDPOINT", "localhost:4318")
	t.Setenv("TEST_TRACING_INSECURE", "true")
	t.Setenv("TEST_TRACING_SAMPLE_RATIO", "0.25")

	cfg = &tracing.Config{}
	require.NoError(t, cfg.Finalize(&tracing.Env{
		Exporter:    "TEST_TRACING_EXPORTER",
		Endpoint:    "TEST_TRACING_ENDPOINT",
		Insecure:    "TEST_TRACING_INSECURE",
		SampleRatio: "TEST_TRACING_SAMPLE_RATIO",
	}))
	assert.Equal(t, tracing.ExporterOTLP, cfg.Exporter)
	assert.Equal(t, "localhost:4318", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 0.25, cfg.SampleRatio)
	assert.True(t, cfg.Enabled())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  tracing.Config
	}{
		{name: "unknown exporter", cfg: tracing.Config{Exporter: "jaeger"}},
		{name: "otlp without endpoint", cfg: tracing.Config{Exporter: tracing.ExporterOTLP}},
		{name: "ratio above one", cfg: tracing.Config{Exporter: tracing.ExporterStdout, SampleRatio: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Finalize(nil))
		})
	}
}

func TestNewDisabled(t *testing.T) {
	cfg := &tracing.Config{}
	require.NoError(t, cfg.Finalize(nil))

	p, err := tracing.New(context.Background(), cfg, tracing.Resource{}, discard())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProviderExportsGlobalSpans(t *testing.T) {
	cfg := &tracing.Config{Exporter: tracing.ExporterStdout}
	require.NoError(t, cfg.Finalize(nil))

	exp := tracetest.NewInMemoryExporter()
	p := tracing.NewWithExporter(cfg, exp, tracing.Resource{Version: "1.2.3", Environment: "test"}, discard())

	ctx := context.Background()
	_, span := otel.Tracer("clashreporter.test").Start(ctx, "clashes.refresh")
	span.End()

	require.NoError(t, p.Flush(ctx))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "clashes.refresh", spans[0].Name)

	attrs := map[string]string{}
	for _, kv := range spans[0].Resource.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "clashreporter", attrs["service.name"])
	assert.Equal(t, "1.2.3", attrs["service.version"])
}

func TestProviderShutdownOnLifecycle(t *testing.T) {
	cfg := &tracing.Config{Exporter: tracing.ExporterStdout}
	require.NoError(t, cfg.Finalize(nil))

	p := tracing.NewWithExporter(cfg, tracetest.NewInMemoryExporter(), tracing.Resource{}, discard())
	lc := lifecycle.New()
	p.Start(lc)

	_, span := p.Tracer("clashreporter.test").Start(context.Background(), "before")
	assert.True(t, span.IsRecording())
	span.End()

	require.NoError(t, lc.Shutdown(time.Second))

	_, span = p.Tracer("clashreporter.test").Start(context.Background(), "after")
	assert.False(t, span.IsRecording())
}
