// Package query provides in-memory filtering and ordering over typed
// collections, addressed through a projection of named field accessors.
package query

import (
	"cmp"
	"strings"
)

// Field reads a logical property from T.
// Text backs the equality and contains predicates; Compare backs ordering
// and defaults to a case-sensitive comparison of Text when nil.
type Field[T any] struct {
	Text    func(T) string
	Compare func(a, b T) int
}

func (f Field[T]) compare(a, b T) int {
	if f.Compare != nil {
		return f.Compare(a, b)
	}
	if f.Text == nil {
		return 0
	}
	return cmp.Compare(f.Text(a), f.Text(b))
}

// ProjectionMap maps view property names to field accessors.
type ProjectionMap[T any] struct {
	fields map[string]Field[T]
	names  []string
}

// NewProjectionMap creates an empty ProjectionMap.
func NewProjectionMap[T any]() *ProjectionMap[T] {
	return &ProjectionMap[T]{
		fields: make(map[string]Field[T]),
		names:  make([]string, 0),
	}
}

// Project registers an accessor under name.
func (p *ProjectionMap[T]) Project(name string, field Field[T]) *ProjectionMap[T] {
	if _, ok := p.fields[name]; !ok {
		p.names = append(p.names, name)
	}
	p.fields[name] = field
	return p
}

// ProjectText registers a text-only accessor under name.
func (p *ProjectionMap[T]) ProjectText(name string, text func(T) string) *ProjectionMap[T] {
	return p.Project(name, Field[T]{Text: text})
}

// Field returns the accessor registered under name.
func (p *ProjectionMap[T]) Field(name string) (Field[T], bool) {
	f, ok := p.fields[name]
	return f, ok
}

// Names returns the projected field names in registration order.
func (p *ProjectionMap[T]) Names() []string {
	return p.names
}

// Sortable reports whether name is a projected field.
func (p *ProjectionMap[T]) Sortable(name string) bool {
	_, ok := p.fields[name]
	return ok
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
