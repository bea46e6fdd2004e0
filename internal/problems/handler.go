package problems

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/techforall-fr/202510-ClashReporter/pkg/handlers"
	"github.com/techforall-fr/202510-ClashReporter/pkg/pagination"
	"github.com/techforall-fr/202510-ClashReporter/pkg/routes"
)

// Handler provides HTTP endpoints for problem operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "problems"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for problem endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/problems",
		Tags:    []string{"Problems"},
		Schemas: Spec.Schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "POST", Pattern: "/{id}/links", Handler: h.Link, OpenAPI: Spec.Link},
			{Method: "DELETE", Pattern: "/{id}/links/{clash_id}", Handler: h.Unlink, OpenAPI: Spec.Unlink},
		},
	}
}

// List returns a paginated list of problems, optionally scoped to one clash.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single problem by id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	p, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Create raises a new problem linked to a clash.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalid, err))
		return
	}

	p, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, p)
}

// Link attaches an additional clash to a problem. Linking an already
// linked clash is a no-op.
func (h *Handler) Link(w http.ResponseWriter, r *http.Request) {
	var cmd LinkCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalid, err))
		return
	}

	p, err := h.sys.Link(r.Context(), r.PathValue("id"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}

// Unlink removes a clash from a problem.
func (h *Handler) Unlink(w http.ResponseWriter, r *http.Request) {
	p, err := h.sys.Unlink(r.Context(), r.PathValue("id"), r.PathValue("clash_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, p)
}
