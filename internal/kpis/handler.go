package kpis

import (
	"log/slog"
	"net/http"

	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
	"github.com/techforall-fr/202510-ClashReporter/pkg/handlers"
	"github.com/techforall-fr/202510-ClashReporter/pkg/openapi"
	"github.com/techforall-fr/202510-ClashReporter/pkg/routes"
)

// Handler provides HTTP endpoints for clash KPIs.
type Handler struct {
	clashes clashes.System
	logger  *slog.Logger
}

// NewHandler creates a Handler that aggregates the collection served by sys.
func NewHandler(sys clashes.System, logger *slog.Logger) *Handler {
	return &Handler{
		clashes: sys,
		logger:  logger.With("handler", "kpis"),
	}
}

// Routes returns the route group definition for KPI endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/kpis",
		Tags:    []string{"KPIs"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Summary, OpenAPI: summaryOp},
		},
	}
}

// Summary returns the KPIs of the cached collection, narrowed by the same
// severity, status, discipline and level criteria the clash list accepts.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := clashes.FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, clashes.MapHTTPStatus(err), err)
		return
	}

	all, err := h.clashes.GetAll(r.Context(), false)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Aggregate(clashes.Match(all, filter)))
}

var summaryOp = &openapi.Operation{
	Summary:     "Clash KPIs",
	Description: "Severity, status, category, discipline and level statistics over the cached clashes.",
	Parameters: []*openapi.Parameter{
		openapi.EnumQueryParam("severity", "Severities to include", "high", "medium", "low"),
		openapi.EnumQueryParam("status", "Statuses to include", "open", "resolved", "suppressed"),
		openapi.QueryParam("discipline", "string", "Case-insensitive substring of either discipline", false),
		openapi.QueryParam("level", "string", "Exact level label", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("KPI summary", "KPISummary"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var schemas = map[string]*openapi.Schema{
	"KPISummary": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"total_clashes": {Type: "integer"},
			"by_severity": {
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"high":   {Type: "integer"},
					"medium": {Type: "integer"},
					"low":    {Type: "integer"},
				},
			},
			"by_status": {
				Type: "object",
				Properties: map[string]*openapi.Schema{
					"open":       {Type: "integer"},
					"resolved":   {Type: "integer"},
					"suppressed": {Type: "integer"},
				},
			},
			"resolved_percentage": {Type: "number"},
			"top_categories":      openapi.ArrayOf("CategoryCount"),
			"by_discipline":       openapi.ArrayOf("DisciplineStats"),
			"by_level":            {Type: "object", Description: "Clash count per level"},
			"last_updated":        {Type: "string", Format: "date-time"},
		},
	},
	"CategoryCount": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"category": {Type: "string"},
			"count":    {Type: "integer"},
		},
	},
	"DisciplineStats": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"discipline_pair": {Type: "string", Example: "MEP vs Structure"},
			"count":           {Type: "integer"},
			"high":            {Type: "integer"},
			"medium":          {Type: "integer"},
			"low":             {Type: "integer"},
		},
	},
}
