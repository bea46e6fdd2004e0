package problems

import "github.com/techforall-fr/202510-ClashReporter/pkg/openapi"

type spec struct {
	List    *openapi.Operation
	Find    *openapi.Operation
	Create  *openapi.Operation
	Link    *openapi.Operation
	Unlink  *openapi.Operation
	Schemas map[string]*openapi.Schema
}

// Spec documents the problem endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary: "List problems",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("clash_id", "string", "Only problems linked to this clash", false),
			openapi.QueryParam("status", "string", "open, in_progress, resolved or closed", false),
			openapi.QueryParam("priority", "string", "high, medium or low", false),
			openapi.QueryParam("search", "string", "Case-insensitive title search", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields, prefix - for descending", false),
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of problems", "ProblemPageResult"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get problem by id",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Problem id")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Problem details", "Problem"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create problem",
		Description: "Raise a problem linked to a clash. Unknown status or priority values fall back to open and medium.",
		RequestBody: openapi.RequestBodyJSON("CreateProblemCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created problem", "Problem"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Link: &openapi.Operation{
		Summary:     "Link problem to clash",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Problem id")},
		RequestBody: openapi.RequestBodyJSON("LinkProblemCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated problem", "Problem"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Unlink: &openapi.Operation{
		Summary: "Unlink problem from clash",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Problem id"),
			openapi.PathParam("clash_id", "Clash id"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated problem", "Problem"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"ProblemReference": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"type":  {Type: "string", Example: "clash"},
				"id":    {Type: "string"},
				"title": {Type: "string"},
				"urn":   {Type: "string"},
			},
		},
		"Problem": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string"},
				"title":       {Type: "string"},
				"description": {Type: "string"},
				"status":      {Type: "string", Enum: []any{"open", "in_progress", "resolved", "closed"}},
				"priority":    {Type: "string", Enum: []any{"high", "medium", "low"}},
				"assigned_to": {Type: "string"},
				"due_date":    {Type: "string", Format: "date-time"},
				"created_at":  {Type: "string", Format: "date-time"},
				"updated_at":  {Type: "string", Format: "date-time"},
				"references":  openapi.ArrayOf("ProblemReference"),
				"clash_ids":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"ProblemPageResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf("Problem"),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"CreateProblemCommand": {
			Type:     "object",
			Required: []string{"title", "clash_id"},
			Properties: map[string]*openapi.Schema{
				"title":       {Type: "string"},
				"description": {Type: "string"},
				"status":      {Type: "string", Default: "open"},
				"priority":    {Type: "string", Default: "medium"},
				"assigned_to": {Type: "string"},
				"due_date":    {Type: "string", Format: "date-time"},
				"clash_id":    {Type: "string"},
			},
		},
		"LinkProblemCommand": {
			Type:     "object",
			Required: []string{"clash_id"},
			Properties: map[string]*openapi.Schema{
				"clash_id": {Type: "string"},
			},
		},
	},
}
