package aps

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for upstream operations.
var (
	ErrSourceUnavailable = errors.New("clash source unavailable")
	ErrNotConfigured     = errors.New("aps credentials not configured")
	ErrAuth              = errors.New("aps authentication failed")
	ErrResourceTooLarge  = errors.New("resource exceeds size limit")
)

// StatusError reports a non-success response from an upstream endpoint.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// MapHTTPStatus maps upstream domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotConfigured) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrAuth) || errors.Is(err, ErrSourceUnavailable) {
		return http.StatusBadGateway
	}
	var se *StatusError
	if errors.As(err, &se) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
