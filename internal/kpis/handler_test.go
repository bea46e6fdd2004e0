package kpis_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
	"github.com/techforall-fr/202510-ClashReporter/internal/kpis"
	"github.com/techforall-fr/202510-ClashReporter/pkg/pagination"
	"github.com/techforall-fr/202510-ClashReporter/pkg/routes"
)

func newMux() *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := clashes.New(nil, nil, 60, logger, pagination.Config{DefaultPageSize: 50, MaxPageSize: 200})

	mux := http.NewServeMux()
	routes.Register(mux, kpis.NewHandler(sys, logger).Routes())
	return mux
}

func TestHandlerSummary(t *testing.T) {
	mux := newMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kpis", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var s kpis.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&s))
	assert.Equal(t, 60, s.TotalClashes)
}

func TestHandlerSummaryFiltered(t *testing.T) {
	mux := newMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kpis?severity=high", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var s kpis.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&s))
	assert.Equal(t, s.TotalClashes, s.BySeverity.High)
	assert.Zero(t, s.BySeverity.Medium)
	assert.Zero(t, s.BySeverity.Low)
}

func TestHandlerSummaryInvalidFilter(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kpis?status=closed", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
