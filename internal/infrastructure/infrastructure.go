// Package infrastructure provides core service initialization for application startup.
// It assembles the logger, capture storage, tracer provider and lifecycle
// coordinator that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/zap"

	"github.com/techforall-fr/202510-ClashReporter/internal/config"
	"github.com/techforall-fr/202510-ClashReporter/pkg/lifecycle"
	"github.com/techforall-fr/202510-ClashReporter/pkg/storage"
	"github.com/techforall-fr/202510-ClashReporter/pkg/tracing"
)

// Infrastructure holds the core systems required by all domain modules.
// Storage is nil when no blob connection is configured and Tracing is nil
// when no span exporter is selected.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
	Tracing   *tracing.Provider

	zap *zap.Logger
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger, z, err := NewLogger(cfg.LogLevel, cfg.Env())
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}

	var store storage.System
	if cfg.Storage.Enabled() {
		store, err = storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
	} else {
		logger.Warn("capture storage not configured, captures disabled")
	}

	tp, err := tracing.New(context.Background(), &cfg.Tracing, tracing.Resource{
		Version:     cfg.Version,
		Environment: cfg.Env(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Storage:   store,
		Tracing:   tp,
		zap:       z,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}

	if i.Tracing != nil {
		i.Tracing.Start(i.Lifecycle)
	}

	if i.zap != nil {
		i.Lifecycle.OnShutdown(func() {
			<-i.Lifecycle.Context().Done()
			_ = i.zap.Sync()
		})
	}
	return nil
}
