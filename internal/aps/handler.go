package aps

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/techforall-fr/202510-ClashReporter/pkg/handlers"
	"github.com/techforall-fr/202510-ClashReporter/pkg/openapi"
	"github.com/techforall-fr/202510-ClashReporter/pkg/routes"
)

// Invalidator drops cached state derived from upstream data.
type Invalidator interface {
	Invalidate()
}

// ViewerToken is the short-lived token handed to the model viewer.
type ViewerToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// ResetResult reports the outcome of an auth reset.
type ResetResult struct {
	Status string `json:"status"`
}

// Handler provides HTTP endpoints for upstream auth operations.
type Handler struct {
	api    *TokenSource
	viewer *TokenSource
	cache  Invalidator
	logger *slog.Logger
}

// NewHandler creates a Handler. Nil token sources mean upstream access is
// not configured.
func NewHandler(api, viewer *TokenSource, cache Invalidator, logger *slog.Logger) *Handler {
	return &Handler{
		api:    api,
		viewer: viewer,
		cache:  cache,
		logger: logger.With("handler", "aps"),
	}
}

// Routes returns the route groups for viewer token and auth endpoints.
func (h *Handler) Routes() []routes.Group {
	return []routes.Group{
		{
			Prefix:  "/viewer",
			Tags:    []string{"Viewer"},
			Schemas: schemas,
			Routes: []routes.Route{
				{Method: "GET", Pattern: "/token", Handler: h.Token, OpenAPI: tokenOp},
			},
		},
		{
			Prefix: "/auth",
			Tags:   []string{"Auth"},
			Routes: []routes.Route{
				{Method: "POST", Pattern: "/reset", Handler: h.Reset, OpenAPI: resetOp},
			},
		},
	}
}

// Token issues a viewer-scoped access token.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if h.viewer == nil {
		handlers.RespondError(w, h.logger, http.StatusServiceUnavailable, ErrNotConfigured)
		return
	}

	tok, err := h.viewer.Token(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	expiresIn := 0
	if !tok.Expiry.IsZero() {
		expiresIn = max(int(time.Until(tok.Expiry).Seconds()), 0)
	}

	handlers.RespondJSON(w, http.StatusOK, ViewerToken{
		AccessToken: tok.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	})
}

// Reset drops cached tokens and the clash cache so the next request
// re-authenticates and reloads.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if h.api != nil {
		h.api.Reset()
	}
	if h.viewer != nil {
		h.viewer.Reset()
	}
	if h.cache != nil {
		h.cache.Invalidate()
	}

	h.logger.Info("upstream auth reset")
	handlers.RespondJSON(w, http.StatusOK, ResetResult{Status: "reset"})
}

var tokenOp = &openapi.Operation{
	Summary:     "Get viewer token",
	Description: "Issues a read-only access token for the model viewer.",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Viewer token", "ViewerToken"),
		502: {Description: "Upstream authentication failed"},
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}

var resetOp = &openapi.Operation{
	Summary:     "Reset upstream auth",
	Description: "Drops cached upstream tokens and invalidates the clash cache.",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Reset acknowledged", "ResetResult"),
	},
}

var schemas = map[string]*openapi.Schema{
	"ViewerToken": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"access_token": {Type: "string"},
			"token_type":   {Type: "string", Example: "Bearer"},
			"expires_in":   {Type: "integer", Description: "Seconds until expiry"},
		},
	},
	"ResetResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"status": {Type: "string", Example: "reset"},
		},
	},
}
