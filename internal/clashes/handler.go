package clashes

import (
	"log/slog"
	"net/http"

	"github.com/techforall-fr/202510-ClashReporter/pkg/handlers"
	"github.com/techforall-fr/202510-ClashReporter/pkg/pagination"
	"github.com/techforall-fr/202510-ClashReporter/pkg/routes"
)

// Handler provides HTTP endpoints for clash and viewer operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "clashes"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for clash endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/clashes",
		Tags:    []string{"Clashes"},
		Schemas: Spec.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "/refresh", Handler: h.Refresh, OpenAPI: Spec.Refresh},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
		},
	}
}

// ViewerRoutes returns the route group definition for model viewer endpoints.
func (h *Handler) ViewerRoutes() routes.Group {
	return routes.Group{
		Prefix: "/viewer",
		Tags:   []string{"Viewer"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/model-urns", Handler: h.ModelURNs, OpenAPI: Spec.ModelURNs},
			{Method: "GET", Pattern: "/clashes/{id}", Handler: h.ViewerClash, OpenAPI: Spec.ViewerClash},
		},
	}
}

// List returns a filtered, sorted page of clashes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	page, err := h.sys.List(r.Context(), filter)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, page)
}

// Find returns a single clash by id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	c, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Refresh reloads the clash collection and reports what was loaded.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	info, err := h.sys.Refresh(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, info)
}

// ModelURNs returns the distinct model URNs referenced by the current clashes.
func (h *Handler) ModelURNs(w http.ResponseWriter, r *http.Request) {
	all, err := h.sys.GetAll(r.Context(), false)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, CollectModelURNs(all))
}

// ViewerClash returns the viewer focus payload for a clash.
func (h *Handler) ViewerClash(w http.ResponseWriter, r *http.Request) {
	c, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewViewerClash(*c))
}
