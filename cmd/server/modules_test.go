package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/techforall-fr/202510-ClashReporter/internal/infrastructure"
	"github.com/techforall-fr/202510-ClashReporter/pkg/lifecycle"
)

func TestNativeRoutes(t *testing.T) {
	infra := &infrastructure.Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	router := buildRouter(infra)

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, serve("/healthz").Code)

	rec := serve("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not ready","checks":{"startup":false}}`, rec.Body.String())

	infra.Lifecycle.WaitForStartup()
	assert.Equal(t, http.StatusOK, serve("/readyz").Code)

	rec = serve("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
