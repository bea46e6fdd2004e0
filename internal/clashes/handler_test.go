package clashes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
	"github.com/techforall-fr/202510-ClashReporter/pkg/routes"
)

func newMux(sys clashes.System) *http.ServeMux {
	h := sys.Handler()
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes(), h.ViewerRoutes())
	return mux
}

func viewerClashes() []clashes.Clash {
	a := clash("c1", clashes.SeverityHigh, clashes.StatusOpen, 1)
	a.ElementA = clashes.Element{URN: "docA", GUID: "g1", Name: "Duct"}
	a.ElementB = clashes.Element{URN: "docB", GUID: "g2", Name: "Beam"}
	a.Location = clashes.Location{X: 1, Y: 2, Z: 3, Level: "L01"}

	b := clash("c2", clashes.SeverityMedium, clashes.StatusOpen, 2)
	b.ElementA = clashes.Element{URN: "docB"}
	b.ElementB = clashes.Element{URN: ""}

	return []clashes.Clash{a, b}
}

func serve(t *testing.T, mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandlerList(t *testing.T) {
	mux := newMux(clashes.New(nil, seeded(5), 40, discard(), pageConfig()))

	rec := serve(t, mux, http.MethodGet, "/clashes?severity=high&severity=medium&page_size=5&sort_by=updated_at")
	require.Equal(t, http.StatusOK, rec.Code)

	var page clashes.Page
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 5, page.PageSize)
	assert.LessOrEqual(t, len(page.Clashes), 5)
	for _, c := range page.Clashes {
		assert.NotEqual(t, clashes.SeverityLow, c.Severity)
	}
	for i := 1; i < len(page.Clashes); i++ {
		assert.False(t, page.Clashes[i].UpdatedAt.After(page.Clashes[i-1].UpdatedAt))
	}
}

func TestHandlerListRejectsInvalidFilter(t *testing.T) {
	mux := newMux(clashes.New(nil, seeded(5), 10, discard(), pageConfig()))

	rec := serve(t, mux, http.MethodGet, "/clashes?severity=critical")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerFind(t *testing.T) {
	mux := newMux(clashes.New(&fakeSource{clashes: viewerClashes()}, nil, 10, discard(), pageConfig()))

	rec := serve(t, mux, http.MethodGet, "/clashes/c1")
	require.Equal(t, http.StatusOK, rec.Code)

	var c clashes.Clash
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, clashes.SeverityHigh, c.Severity)

	rec = serve(t, mux, http.MethodGet, "/clashes/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerRefresh(t *testing.T) {
	src := &fakeSource{clashes: viewerClashes()}
	mux := newMux(clashes.New(src, nil, 10, discard(), pageConfig()))

	rec := serve(t, mux, http.MethodPost, "/clashes/refresh")
	require.Equal(t, http.StatusOK, rec.Code)

	var info clashes.Info
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, clashes.OriginLive, info.Origin)
	assert.Equal(t, 2, info.Count)
}

func TestHandlerViewer(t *testing.T) {
	mux := newMux(clashes.New(&fakeSource{clashes: viewerClashes()}, nil, 10, discard(), pageConfig()))

	rec := serve(t, mux, http.MethodGet, "/viewer/model-urns")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"urns":["docA","docB"],"count":2}`, rec.Body.String())

	rec = serve(t, mux, http.MethodGet, "/viewer/clashes/c1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"clash_id":"c1",
		"element_a":{"urn":"docA","guid":"g1","name":"Duct"},
		"element_b":{"urn":"docB","guid":"g2","name":"Beam"},
		"location":{"x":1,"y":2,"z":3}
	}`, rec.Body.String())

	rec = serve(t, mux, http.MethodGet, "/viewer/clashes/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
