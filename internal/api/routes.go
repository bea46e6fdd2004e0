package api

import (
	"fmt"
	"net/http"

	"github.com/techforall-fr/202510-ClashReporter/internal/config"
	"github.com/techforall-fr/202510-ClashReporter/internal/kpis"
	"github.com/techforall-fr/202510-ClashReporter/pkg/openapi"
	"github.com/techforall-fr/202510-ClashReporter/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	clashHandler := domain.Clashes.Handler()

	groups := []routes.Group{
		clashHandler.Routes(),
		clashHandler.ViewerRoutes(),
		kpis.NewHandler(domain.Clashes, runtime.Logger).Routes(),
		domain.Problems.Handler().Routes(),
		domain.Captures.Handler().Routes(),
	}
	groups = append(groups, domain.Auth.Routes()...)

	routes.Register(mux, groups...)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	routes.Describe(spec, cfg.API.BasePath, groups...)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
