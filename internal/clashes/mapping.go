package clashes

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/techforall-fr/202510-ClashReporter/pkg/pagination"
	"github.com/techforall-fr/202510-ClashReporter/pkg/query"
)

var projection = query.
	NewProjectionMap[Clash]().
	Project("severity", query.Field[Clash]{
		Text:    func(c Clash) string { return string(c.Severity) },
		Compare: func(a, b Clash) int { return a.Severity.Rank() - b.Severity.Rank() },
	}).
	Project("status", query.Field[Clash]{
		Text:    func(c Clash) string { return string(c.Status) },
		Compare: func(a, b Clash) int { return a.Status.Rank() - b.Status.Rank() },
	}).
	Project("updated_at", query.Field[Clash]{
		Compare: func(a, b Clash) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	}).
	Project("created_at", query.Field[Clash]{
		Compare: func(a, b Clash) int { return a.CreatedAt.Compare(b.CreatedAt) },
	}).
	ProjectText("discipline_a", func(c Clash) string { return c.DisciplineA }).
	ProjectText("discipline_b", func(c Clash) string { return c.DisciplineB }).
	ProjectText("level", func(c Clash) string { return c.Location.Level })

// SortableFields are the field names accepted by Filter.SortBy.
var SortableFields = []string{"severity", "status", "updated_at", "created_at"}

const (
	DefaultSortBy    = "severity"
	DefaultSortOrder = "desc"
)

var validate = validator.New()

// Filter holds the criteria, ordering and page for a clash query.
// Empty criteria impose no constraint; all criteria are AND-combined.
// Severity and Status match any listed value. Discipline is a
// case-insensitive substring matched against either side. Level is exact.
type Filter struct {
	Severity   []Severity `json:"severity,omitempty" validate:"dive,oneof=high medium low"`
	Status     []Status   `json:"status,omitempty" validate:"dive,oneof=open resolved suppressed"`
	Discipline *string    `json:"discipline,omitempty"`
	Level      *string    `json:"level,omitempty"`
	SortBy     string     `json:"sort_by,omitempty" validate:"omitempty,oneof=severity status updated_at created_at"`
	SortOrder  string     `json:"sort_order,omitempty" validate:"omitempty,oneof=asc desc"`
	Page       int        `json:"page,omitempty" validate:"gte=0"`
	PageSize   int        `json:"page_size,omitempty" validate:"gte=0"`
}

// Validate reports whether the filter only names known values.
func (f Filter) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return nil
}

// Normalize fills defaults and bounds the page size by cfg.
func (f *Filter) Normalize(cfg pagination.Config) {
	if f.SortBy == "" {
		f.SortBy = DefaultSortBy
	}
	if f.SortOrder == "" {
		f.SortOrder = DefaultSortOrder
	}

	page := pagination.PageRequest{Page: f.Page, PageSize: f.PageSize}
	page.Normalize(cfg)
	f.Page, f.PageSize = page.Page, page.PageSize
}

// Apply adds the filter's criteria to a query builder.
func (f Filter) Apply(b *query.Builder[Clash]) *query.Builder[Clash] {
	level := f.Level
	if level != nil && *level == "" {
		level = nil
	}

	return b.
		WhereIn("severity", toStrings(f.Severity)).
		WhereIn("status", toStrings(f.Status)).
		WhereSearch(f.Discipline, "discipline_a", "discipline_b").
		WhereEquals("level", level)
}

// Ordering returns the sort key for the filter. Severity ranks high first,
// so "desc" on severity yields high before low while every other field
// follows the requested direction. Unknown fields yield no ordering.
func (f Filter) Ordering() []query.SortField {
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	if !isSortable(sortBy) {
		return nil
	}

	order := f.SortOrder
	if order == "" {
		order = DefaultSortOrder
	}
	desc := strings.EqualFold(order, "desc")

	return []query.SortField{{
		Field:      sortBy,
		Descending: desc != (sortBy == "severity"),
	}}
}

// FiltersFromQuery extracts a filter from URL query parameters. Severity and
// status accept repeated parameters or comma-separated lists.
func FiltersFromQuery(values url.Values) (Filter, error) {
	var f Filter

	for _, s := range splitValues(values["severity"]) {
		f.Severity = append(f.Severity, Severity(s))
	}

	for _, s := range splitValues(values["status"]) {
		f.Status = append(f.Status, Status(s))
	}

	if d := values.Get("discipline"); d != "" {
		f.Discipline = &d
	}

	if l := values.Get("level"); l != "" {
		f.Level = &l
	}

	f.SortBy = values.Get("sort_by")
	f.SortOrder = values.Get("sort_order")

	if p := values.Get("page"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil || v < 1 {
			return f, fmt.Errorf("%w: page must be a positive integer", ErrInvalidFilter)
		}
		f.Page = v
	}

	if ps := values.Get("page_size"); ps != "" {
		v, err := strconv.Atoi(ps)
		if err != nil || v < 1 {
			return f, fmt.Errorf("%w: page_size must be a positive integer", ErrInvalidFilter)
		}
		f.PageSize = v
	}

	return f, f.Validate()
}

func splitValues(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func toStrings[S ~string](values []S) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func isSortable(field string) bool {
	return slices.Contains(SortableFields, field)
}
