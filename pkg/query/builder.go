package query

import (
	"slices"
	"strings"
)

// SortField represents a single ordering key.
// Field is the logical field name (mapped via ProjectionMap).
// Descending controls sort direction (false = ASC, true = DESC).
type SortField struct {
	Field      string
	Descending bool
}

// Builder accumulates AND-combined predicates and an ordering for a collection of T.
type Builder[T any] struct {
	projection        *ProjectionMap[T]
	conditions        []func(T) bool
	orderByFields     []SortField
	defaultSortFields []SortField
}

// NewBuilder creates a Builder for the given projection with optional default sort fields.
func NewBuilder[T any](projection *ProjectionMap[T], defaultSort ...SortField) *Builder[T] {
	return &Builder[T]{
		projection:        projection,
		conditions:        make([]func(T) bool, 0),
		defaultSortFields: defaultSort,
	}
}

// ParseSortFields parses a comma-separated sort string into a SortField slice.
// Fields prefixed with "-" are descending. Example: "severity,-updated_at".
// Returns nil for empty input.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if after, ok := strings.CutPrefix(part, "-"); ok {
			fields = append(fields, SortField{
				Field:      after,
				Descending: true,
			})
		} else {
			fields = append(fields, SortField{
				Field:      part,
				Descending: false,
			})
		}
	}

	return fields
}

// Where adds an arbitrary predicate.
func (b *Builder[T]) Where(pred func(T) bool) *Builder[T] {
	if pred != nil {
		b.conditions = append(b.conditions, pred)
	}
	return b
}

// WhereEquals adds an exact-match condition. No-op for nil values or unknown fields.
func (b *Builder[T]) WhereEquals(field string, value *string) *Builder[T] {
	if value == nil {
		return b
	}
	f, ok := b.projection.Field(field)
	if !ok || f.Text == nil {
		return b
	}
	want := *value
	return b.Where(func(item T) bool {
		return f.Text(item) == want
	})
}

// WhereIn adds a set-membership condition. No-op for empty slices.
func (b *Builder[T]) WhereIn(field string, values []string) *Builder[T] {
	if len(values) == 0 {
		return b
	}
	f, ok := b.projection.Field(field)
	if !ok || f.Text == nil {
		return b
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return b.Where(func(item T) bool {
		_, hit := set[f.Text(item)]
		return hit
	})
}

// WhereContains adds a case-insensitive substring condition. No-op for nil or empty values.
func (b *Builder[T]) WhereContains(field string, value *string) *Builder[T] {
	if value == nil || *value == "" {
		return b
	}
	return b.WhereSearch(value, field)
}

// WhereSearch adds an OR condition across multiple fields with case-insensitive
// substring matching. No-op for nil or empty search.
func (b *Builder[T]) WhereSearch(search *string, fields ...string) *Builder[T] {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	texts := make([]func(T) string, 0, len(fields))
	for _, name := range fields {
		if f, ok := b.projection.Field(name); ok && f.Text != nil {
			texts = append(texts, f.Text)
		}
	}
	if len(texts) == 0 {
		return b
	}

	needle := *search
	return b.Where(func(item T) bool {
		for _, text := range texts {
			if containsFold(text(item), needle) {
				return true
			}
		}
		return false
	})
}

// OrderByFields sets the sort order, overriding default sort fields.
func (b *Builder[T]) OrderByFields(fields []SortField) *Builder[T] {
	b.orderByFields = fields
	return b
}

// Match reports whether item satisfies every condition.
func (b *Builder[T]) Match(item T) bool {
	for _, cond := range b.conditions {
		if !cond(item) {
			return false
		}
	}
	return true
}

// Filter returns the items satisfying every condition, preserving input order.
// The input slice is never modified.
func (b *Builder[T]) Filter(items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if b.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Sort orders items in place with a stable sort. Fields missing from the
// projection are ignored, so an unknown field leaves input order unchanged.
func (b *Builder[T]) Sort(items []T) {
	keys := b.sortKeys()
	if len(keys) == 0 {
		return
	}

	slices.SortStableFunc(items, func(x, y T) int {
		for _, k := range keys {
			c := k.field.compare(x, y)
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

// Build filters items and returns them in sorted order.
func (b *Builder[T]) Build(items []T) []T {
	out := b.Filter(items)
	b.Sort(out)
	return out
}

type sortKey[T any] struct {
	field Field[T]
	desc  bool
}

func (b *Builder[T]) sortKeys() []sortKey[T] {
	fields := b.orderByFields
	if len(fields) == 0 {
		fields = b.defaultSortFields
	}

	keys := make([]sortKey[T], 0, len(fields))
	for _, sf := range fields {
		if f, ok := b.projection.Field(sf.Field); ok {
			keys = append(keys, sortKey[T]{field: f, desc: sf.Descending})
		}
	}
	return keys
}
