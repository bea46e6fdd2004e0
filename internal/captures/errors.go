package captures

import (
	"errors"
	"net/http"
)

// Domain errors for capture operations.
var (
	ErrNotFound    = errors.New("capture not found")
	ErrInvalid     = errors.New("invalid capture")
	ErrTooLarge    = errors.New("capture exceeds size limit")
	ErrUnavailable = errors.New("capture storage not configured")
)

// MapHTTPStatus maps capture domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
