package captures

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/techforall-fr/202510-ClashReporter/pkg/handlers"
	"github.com/techforall-fr/202510-ClashReporter/pkg/openapi"
	"github.com/techforall-fr/202510-ClashReporter/pkg/routes"
)

// Handler provides HTTP endpoints for clash captures.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "captures"),
	}
}

// Routes returns the route group definition for capture endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/captures",
		Tags:    []string{"Captures"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Save, OpenAPI: saveOp},
			{Method: "GET", Pattern: "/{clash_id}", Handler: h.Image, OpenAPI: imageOp},
			{Method: "GET", Pattern: "/{clash_id}/info", Handler: h.Info, OpenAPI: infoOp},
			{Method: "DELETE", Pattern: "/{clash_id}", Handler: h.Delete, OpenAPI: deleteOp},
		},
	}
}

// Save stores a screenshot sent as a base64 data URL.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var cmd SaveCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalid, err))
		return
	}

	c, err := h.sys.Save(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// Image streams the stored PNG for a clash.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	rc, c, err := h.sys.Open(r.Context(), r.PathValue("clash_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", c.ContentType)
	if c.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(c.Size, 10))
	}
	if !c.SavedAt.IsZero() {
		w.Header().Set("Last-Modified", c.SavedAt.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("capture stream failed", "clash_id", c.ClashID, "error", err)
	}
}

// Info returns the metadata of a stored capture.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	c, err := h.sys.Find(r.Context(), r.PathValue("clash_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Delete removes the capture of a clash.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("clash_id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var saveOp = &openapi.Operation{
	Summary:     "Save clash capture",
	Description: "Stores a PNG screenshot sent as a base64 data URL under captures/<clash_id>.png.",
	RequestBody: openapi.RequestBodyJSON("SaveCaptureCommand", true),
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Stored capture", "Capture"),
		400: openapi.ResponseRef("BadRequest"),
		413: {Description: "Capture exceeds size limit"},
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}

var imageOp = &openapi.Operation{
	Summary:    "Get clash capture image",
	Parameters: []*openapi.Parameter{openapi.PathParam("clash_id", "Clash id")},
	Responses: map[int]*openapi.Response{
		200: {
			Description: "PNG image",
			Content: map[string]*openapi.MediaType{
				ContentType: {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
			},
		},
		404: openapi.ResponseRef("NotFound"),
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}

var infoOp = &openapi.Operation{
	Summary:    "Get clash capture metadata",
	Parameters: []*openapi.Parameter{openapi.PathParam("clash_id", "Clash id")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Capture metadata", "Capture"),
		404: openapi.ResponseRef("NotFound"),
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}

var deleteOp = &openapi.Operation{
	Summary:    "Delete clash capture",
	Parameters: []*openapi.Parameter{openapi.PathParam("clash_id", "Clash id")},
	Responses: map[int]*openapi.Response{
		204: {Description: "Capture deleted"},
		404: openapi.ResponseRef("NotFound"),
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}

var schemas = map[string]*openapi.Schema{
	"Capture": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"clash_id":     {Type: "string"},
			"key":          {Type: "string", Example: "captures/clash_00001.png"},
			"content_type": {Type: "string", Example: ContentType},
			"size":         {Type: "integer"},
			"saved_at":     {Type: "string", Format: "date-time"},
		},
	},
	"SaveCaptureCommand": {
		Type:     "object",
		Required: []string{"clash_id", "image_data_url"},
		Properties: map[string]*openapi.Schema{
			"clash_id":       {Type: "string"},
			"image_data_url": {Type: "string", Description: "data:image/png;base64,..."},
		},
	},
}
