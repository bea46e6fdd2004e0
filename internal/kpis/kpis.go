// Package kpis computes summary statistics over clash collections.
package kpis

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
)

// TopCategoryLimit bounds the number of categories reported.
const TopCategoryLimit = 5

// SeverityCount is the severity histogram.
type SeverityCount struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// StatusCount is the status histogram.
type StatusCount struct {
	Open       int `json:"open"`
	Resolved   int `json:"resolved"`
	Suppressed int `json:"suppressed"`
}

// CategoryCount is the number of clash sides involving a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DisciplineStats breaks down the clashes between one pair of disciplines.
type DisciplineStats struct {
	DisciplinePair string `json:"discipline_pair"`
	Count          int    `json:"count"`
	High           int    `json:"high"`
	Medium         int    `json:"medium"`
	Low            int    `json:"low"`
}

// Summary holds the KPIs of a clash collection.
type Summary struct {
	TotalClashes       int               `json:"total_clashes"`
	BySeverity         SeverityCount     `json:"by_severity"`
	ByStatus           StatusCount       `json:"by_status"`
	ResolvedPercentage float64           `json:"resolved_percentage"`
	TopCategories      []CategoryCount   `json:"top_categories"`
	ByDiscipline       []DisciplineStats `json:"by_discipline"`
	ByLevel            map[string]int    `json:"by_level"`
	LastUpdated        time.Time         `json:"last_updated"`
}

// Aggregate computes the Summary of cs. An empty collection yields a zeroed
// summary with empty, non-nil lists.
func Aggregate(cs []clashes.Clash) Summary {
	s := Summary{
		TotalClashes:  len(cs),
		TopCategories: []CategoryCount{},
		ByDiscipline:  []DisciplineStats{},
		ByLevel:       map[string]int{},
		LastUpdated:   time.Now().UTC(),
	}
	if len(cs) == 0 {
		return s
	}

	categories := newTally[CategoryCount]()
	pairs := newTally[DisciplineStats]()

	for _, c := range cs {
		switch c.Severity {
		case clashes.SeverityHigh:
			s.BySeverity.High++
		case clashes.SeverityMedium:
			s.BySeverity.Medium++
		default:
			s.BySeverity.Low++
		}

		switch c.Status {
		case clashes.StatusResolved:
			s.ByStatus.Resolved++
		case clashes.StatusSuppressed:
			s.ByStatus.Suppressed++
		default:
			s.ByStatus.Open++
		}

		for _, cat := range []string{c.ElementA.Category, c.ElementB.Category} {
			entry := categories.get(cat, func() CategoryCount { return CategoryCount{Category: cat} })
			entry.Count++
		}

		key := PairKey(c.DisciplineA, c.DisciplineB)
		stats := pairs.get(key, func() DisciplineStats { return DisciplineStats{DisciplinePair: key} })
		stats.Count++
		switch c.Severity {
		case clashes.SeverityHigh:
			stats.High++
		case clashes.SeverityMedium:
			stats.Medium++
		default:
			stats.Low++
		}

		if c.Location.Level != "" {
			s.ByLevel[c.Location.Level]++
		}
	}

	s.ResolvedPercentage = round1(float64(s.ByStatus.Resolved) / float64(len(cs)) * 100)

	top := categories.values()
	slices.SortStableFunc(top, func(a, b CategoryCount) int { return cmp.Compare(b.Count, a.Count) })
	s.TopCategories = top[:min(TopCategoryLimit, len(top))]

	s.ByDiscipline = pairs.values()
	slices.SortStableFunc(s.ByDiscipline, func(a, b DisciplineStats) int { return cmp.Compare(b.Count, a.Count) })

	return s
}

// PairKey is the canonical "A vs B" label of a discipline pair, with the
// two labels in lexical order.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + " vs " + b
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// tally keeps entries in first-encountered order.
type tally[T any] struct {
	index   map[string]int
	entries []*T
}

func newTally[T any]() *tally[T] {
	return &tally[T]{index: make(map[string]int)}
}

func (t *tally[T]) get(key string, init func() T) *T {
	if i, ok := t.index[key]; ok {
		return t.entries[i]
	}
	v := init()
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, &v)
	return &v
}

func (t *tally[T]) values() []T {
	out := make([]T, len(t.entries))
	for i, e := range t.entries {
		out[i] = *e
	}
	return out
}
