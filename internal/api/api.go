// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/techforall-fr/202510-ClashReporter/internal/config"
	"github.com/techforall-fr/202510-ClashReporter/internal/infrastructure"
	"github.com/techforall-fr/202510-ClashReporter/pkg/middleware"
	"github.com/techforall-fr/202510-ClashReporter/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)
	domain.Start(runtime.Lifecycle)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.WithRequestID())
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))

	return m, nil
}
