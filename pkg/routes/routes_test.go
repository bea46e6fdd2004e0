package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/techforall-fr/202510-ClashReporter/pkg/openapi"
	"github.com/techforall-fr/202510-ClashReporter/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func clashGroup() routes.Group {
	return routes.Group{
		Prefix: "/clashes",
		Tags:   []string{"Clashes"},
		Schemas: map[string]*openapi.Schema{
			"Clash": {Type: "object"},
		},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: ok, OpenAPI: &openapi.Operation{Summary: "List clashes"}},
			{Method: "GET", Pattern: "/{id}", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Get clash"}},
			{Method: "POST", Pattern: "/refresh", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Refresh"}},
			{Method: "GET", Pattern: "/internal", Handler: ok},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}/captures",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{key...}", Handler: ok, OpenAPI: &openapi.Operation{Summary: "Capture"}},
				},
			},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, clashGroup())

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list", "GET", "/clashes", http.StatusOK},
		{"find", "GET", "/clashes/clash_00001", http.StatusOK},
		{"refresh", "POST", "/clashes/refresh", http.StatusOK},
		{"child", "GET", "/clashes/c1/captures/a/b.png", http.StatusOK},
		{"wrong method", "DELETE", "/clashes/c1", http.StatusMethodNotAllowed},
		{"unknown", "GET", "/problems", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec("Clash Reporter API", "test")
	routes.Describe(spec, "/api", clashGroup())

	list, ok := spec.Paths["/api/clashes"]
	if !ok || list.Get == nil {
		t.Fatal("missing GET /api/clashes")
	}
	if len(list.Get.Tags) != 1 || list.Get.Tags[0] != "Clashes" {
		t.Errorf("tags: got %v, want [Clashes]", list.Get.Tags)
	}

	if item := spec.Paths["/api/clashes/refresh"]; item == nil || item.Post == nil {
		t.Error("missing POST /api/clashes/refresh")
	}

	child, ok := spec.Paths["/api/clashes/{id}/captures/{key}"]
	if !ok || child.Get == nil {
		t.Fatal("missing child route with wildcard stripped")
	}
	if len(child.Get.Tags) != 1 || child.Get.Tags[0] != "Clashes" {
		t.Errorf("child tags: got %v, want inherited [Clashes]", child.Get.Tags)
	}

	if _, ok := spec.Paths["/api/clashes/internal"]; ok {
		t.Error("undocumented route should not be described")
	}
	if _, ok := spec.Components.Schemas["Clash"]; !ok {
		t.Error("group schemas should be merged into components")
	}
}
