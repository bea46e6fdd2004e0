package clashes

import "github.com/techforall-fr/202510-ClashReporter/pkg/openapi"

type spec struct {
	List        *openapi.Operation
	Find        *openapi.Operation
	Refresh     *openapi.Operation
	ModelURNs   *openapi.Operation
	ViewerClash *openapi.Operation
	Schemas     map[string]*openapi.Schema
}

// Spec documents the clash and viewer endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List clashes",
		Description: "Filter, sort and paginate the cached clash collection.",
		Parameters: []*openapi.Parameter{
			openapi.EnumQueryParam("severity", "Severities to include", "high", "medium", "low"),
			openapi.EnumQueryParam("status", "Statuses to include", "open", "resolved", "suppressed"),
			openapi.QueryParam("discipline", "string", "Case-insensitive substring of either discipline", false),
			openapi.QueryParam("level", "string", "Exact level label", false),
			openapi.QueryParam("sort_by", "string", "severity, status, updated_at or created_at", false),
			openapi.QueryParam("sort_order", "string", "asc or desc", false),
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of clashes", "ClashPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get clash by id",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Clash id")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Clash details", "Clash"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Refresh: &openapi.Operation{
		Summary:     "Refresh clashes",
		Description: "Reload clashes from the live source, falling back to synthetic data.",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Cache description", "ClashCacheInfo"),
		},
	},
	ModelURNs: &openapi.Operation{
		Summary: "List model URNs referenced by clashes",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Distinct model URNs", "ModelURNs"),
		},
	},
	ViewerClash: &openapi.Operation{
		Summary:    "Get viewer focus data for a clash",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Clash id")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Viewer payload", "ViewerClash"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Element": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"urn":      {Type: "string"},
				"guid":     {Type: "string"},
				"name":     {Type: "string"},
				"category": {Type: "string"},
			},
		},
		"Location": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"x":     {Type: "number"},
				"y":     {Type: "number"},
				"z":     {Type: "number"},
				"level": {Type: "string"},
			},
		},
		"Clash": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "string"},
				"group_id":       {Type: "string"},
				"title":          {Type: "string"},
				"status":         {Type: "string", Enum: []any{"open", "resolved", "suppressed"}},
				"severity":       {Type: "string", Enum: []any{"high", "medium", "low"}},
				"discipline_a":   {Type: "string"},
				"discipline_b":   {Type: "string"},
				"element_a":      openapi.SchemaRef("Element"),
				"element_b":      openapi.SchemaRef("Element"),
				"location":       openapi.SchemaRef("Location"),
				"screenshot_url": {Type: "string"},
				"acc_link":       {Type: "string"},
				"created_at":     {Type: "string", Format: "date-time"},
				"updated_at":     {Type: "string", Format: "date-time"},
			},
		},
		"ClashPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"clashes":     openapi.ArrayOf("Clash"),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"ClashCacheInfo": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"origin":       {Type: "string", Enum: []any{"live", "fallback", "mock"}},
				"count":        {Type: "integer"},
				"refreshed_at": {Type: "string", Format: "date-time"},
			},
		},
		"ModelURNs": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"urns":  {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"count": {Type: "integer"},
			},
		},
		"ViewerClash": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"clash_id":  {Type: "string"},
				"element_a": openapi.SchemaRef("Element"),
				"element_b": openapi.SchemaRef("Element"),
				"location":  openapi.SchemaRef("Location"),
			},
		},
	},
}
