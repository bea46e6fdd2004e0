package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/techforall-fr/202510-ClashReporter/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Clash Reporter API", "0.1.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Clash Reporter API" || spec.Info.Version != "0.1.0" {
		t.Errorf("info: got %+v", spec.Info)
	}
	for _, name := range []string{"BadRequest", "NotFound", "ServiceUnavailable"} {
		if _, ok := spec.Components.Responses[name]; !ok {
			t.Errorf("missing shared response %s", name)
		}
	}
	if _, ok := spec.Components.Schemas["Error"]; !ok {
		t.Error("missing Error schema")
	}
}

func TestRefs(t *testing.T) {
	if got := openapi.SchemaRef("Clash").Ref; got != "#/components/schemas/Clash" {
		t.Errorf("schema ref: got %s", got)
	}
	if got := openapi.ResponseRef("NotFound").Ref; got != "#/components/responses/NotFound" {
		t.Errorf("response ref: got %s", got)
	}
	if got := openapi.ArrayOf("Clash").Items.Ref; got != "#/components/schemas/Clash" {
		t.Errorf("array items: got %s", got)
	}
}

func TestParams(t *testing.T) {
	p := openapi.PathParam("id", "Clash id")
	if p.In != "path" || !p.Required {
		t.Errorf("path param: got in=%s required=%v", p.In, p.Required)
	}

	q := openapi.EnumQueryParam("severity", "Severity filter", "high", "medium", "low")
	if q.In != "query" || len(q.Schema.Items.Enum) != 3 {
		t.Errorf("enum param: got in=%s enum=%v", q.In, q.Schema.Items.Enum)
	}

	rb := openapi.RequestBodyJSON("CreateProblemCommand", true)
	if !rb.Required || rb.Content["application/json"].Schema.Ref != "#/components/schemas/CreateProblemCommand" {
		t.Errorf("request body: got %+v", rb)
	}
}

func TestConfig(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Coordination API")

	cfg := &openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Coordination API" {
		t.Errorf("title: got %s", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("description should default")
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Clash Reporter API", "0.1.0")
	spec.Paths["/api/kpis"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:   "Clash KPIs",
			Responses: map[int]*openapi.Response{200: openapi.ResponseJSON("KPIs", "Summary")},
		},
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type: got %s", ct)
	}

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	paths := decoded["paths"].(map[string]any)
	if _, ok := paths["/api/kpis"]; !ok {
		t.Error("missing /api/kpis path")
	}
}
