package problems

import (
	"errors"
	"net/http"
)

// Domain errors for problem operations.
var (
	ErrNotFound = errors.New("problem not found")
	ErrInvalid  = errors.New("invalid problem request")
)

// MapHTTPStatus maps problem domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
