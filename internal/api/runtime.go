package api

import (
	"github.com/techforall-fr/202510-ClashReporter/internal/aps"
	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
	"github.com/techforall-fr/202510-ClashReporter/internal/config"
	"github.com/techforall-fr/202510-ClashReporter/internal/infrastructure"
	"github.com/techforall-fr/202510-ClashReporter/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination     pagination.Config
	APS            *aps.Config
	Clashes        clashes.Config
	MaxCaptureSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Storage:   infra.Storage,
		},
		Pagination:     cfg.API.Pagination,
		APS:            &cfg.APS,
		Clashes:        cfg.Clashes,
		MaxCaptureSize: cfg.API.MaxCaptureSizeBytes(),
	}
}
