package clashes

import (
	"errors"
	"net/http"
)

// Domain errors for clash operations.
var (
	ErrNotFound      = errors.New("clash not found")
	ErrInvalidFilter = errors.New("invalid clash filter")
)

// MapHTTPStatus maps clash domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidFilter) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
