package routes

import (
	"net/http"

	"github.com/techforall-fr/202510-ClashReporter/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler.
// OpenAPI optionally documents the route in the published spec.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
