package problems

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/techforall-fr/202510-ClashReporter/pkg/query"
)

var projection = query.
	NewProjectionMap[Problem]().
	ProjectText("id", func(p Problem) string { return p.ID }).
	ProjectText("title", func(p Problem) string { return p.Title }).
	ProjectText("status", func(p Problem) string { return string(p.Status) }).
	Project("priority", query.Field[Problem]{
		Text:    func(p Problem) string { return string(p.Priority) },
		Compare: func(a, b Problem) int { return a.Priority.Rank() - b.Priority.Rank() },
	}).
	Project("created_at", query.Field[Problem]{
		Compare: func(a, b Problem) int { return a.CreatedAt.Compare(b.CreatedAt) },
	}).
	Project("updated_at", query.Field[Problem]{
		Compare: func(a, b Problem) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	})

var defaultSort = query.SortField{
	Field:      "updated_at",
	Descending: true,
}

var validate = validator.New()

// Filters contains optional filtering criteria for problem queries.
// Nil fields are ignored. ClashID keeps problems linked to that clash.
// Search is a case-insensitive contains match on the title.
type Filters struct {
	ClashID  *string   `json:"clash_id,omitempty"`
	Status   *Status   `json:"status,omitempty"`
	Priority *Priority `json:"priority,omitempty"`
	Search   *string   `json:"search,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder[Problem]) *query.Builder[Problem] {
	b = b.
		WhereEquals("status", (*string)(f.Status)).
		WhereEquals("priority", (*string)(f.Priority)).
		WhereContains("title", f.Search)

	if f.ClashID != nil && *f.ClashID != "" {
		clashID := *f.ClashID
		b = b.Where(func(p Problem) bool { return p.LinkedTo(clashID) })
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("clash_id"); c != "" {
		f.ClashID = &c
	}

	if s := values.Get("status"); s != "" {
		status := ParseStatus(s)
		f.Status = &status
	}

	if p := values.Get("priority"); p != "" {
		priority := ParsePriority(p)
		f.Priority = &priority
	}

	if q := values.Get("search"); q != "" {
		f.Search = &q
	}

	return f
}

func validateCommand(cmd any) error {
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
