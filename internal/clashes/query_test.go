package clashes_test

import (
	"net/url"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
	"github.com/techforall-fr/202510-ClashReporter/pkg/pagination"
)

var day0 = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func clash(id string, sev clashes.Severity, status clashes.Status, updatedDay int) clashes.Clash {
	return clashes.Clash{
		ID:        id,
		Severity:  sev,
		Status:    status,
		CreatedAt: day0,
		UpdatedAt: day0.Add(time.Duration(updatedDay) * 24 * time.Hour),
	}
}

func ids(cs []clashes.Clash) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func sample() []clashes.Clash {
	return []clashes.Clash{
		clash("a", clashes.SeverityLow, clashes.StatusResolved, 3),
		clash("b", clashes.SeverityHigh, clashes.StatusSuppressed, 1),
		clash("c", clashes.SeverityMedium, clashes.StatusOpen, 5),
		clash("d", clashes.SeverityHigh, clashes.StatusOpen, 2),
		clash("e", clashes.SeverityMedium, clashes.StatusResolved, 4),
	}
}

func TestQuerySort(t *testing.T) {
	tests := []struct {
		name  string
		by    string
		order string
		want  []string
	}{
		{"severity desc is high first", "severity", "desc", []string{"b", "d", "c", "e", "a"}},
		{"severity asc is low first", "severity", "asc", []string{"a", "c", "e", "b", "d"}},
		{"default is severity desc", "", "", []string{"b", "d", "c", "e", "a"}},
		{"status asc is open first", "status", "asc", []string{"c", "d", "a", "e", "b"}},
		{"status desc is suppressed first", "status", "desc", []string{"b", "a", "e", "c", "d"}},
		{"updated_at desc is newest first", "updated_at", "desc", []string{"c", "e", "a", "d", "b"}},
		{"updated_at asc is oldest first", "updated_at", "asc", []string{"b", "d", "a", "e", "c"}},
		{"created_at ties keep input order", "created_at", "desc", []string{"a", "b", "c", "d", "e"}},
		{"unknown field keeps input order", "title", "desc", []string{"a", "b", "c", "d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := clashes.Query(sample(), clashes.Filter{SortBy: tt.by, SortOrder: tt.order, PageSize: 10})
			assert.Equal(t, tt.want, ids(page.Clashes))
		})
	}
}

func TestQueryDoesNotMutateInput(t *testing.T) {
	in := sample()
	before := slices.Clone(in)

	clashes.Query(in, clashes.Filter{SortBy: "updated_at", SortOrder: "asc"})

	assert.Equal(t, before, in)
}

func TestQueryFilters(t *testing.T) {
	all := []clashes.Clash{
		{ID: "1", Severity: clashes.SeverityHigh, Status: clashes.StatusOpen, DisciplineA: "MEP", DisciplineB: "Structure", Location: clashes.Location{Level: "L01"}},
		{ID: "2", Severity: clashes.SeverityLow, Status: clashes.StatusOpen, DisciplineA: "Architecture", DisciplineB: "MEP", Location: clashes.Location{Level: "L02"}},
		{ID: "3", Severity: clashes.SeverityMedium, Status: clashes.StatusResolved, DisciplineA: "Structure", DisciplineB: "Architecture", Location: clashes.Location{Level: "L01"}},
		{ID: "4", Severity: clashes.SeverityHigh, Status: clashes.StatusSuppressed, DisciplineA: "Structure", DisciplineB: "Structure"},
	}

	str := func(s string) *string { return &s }

	tests := []struct {
		name   string
		filter clashes.Filter
		want   []string
	}{
		{"no criteria", clashes.Filter{SortBy: "none"}, []string{"1", "2", "3", "4"}},
		{"severity set", clashes.Filter{SortBy: "none", Severity: []clashes.Severity{clashes.SeverityHigh, clashes.SeverityLow}}, []string{"1", "2", "4"}},
		{"status set", clashes.Filter{SortBy: "none", Status: []clashes.Status{clashes.StatusOpen}}, []string{"1", "2"}},
		{"discipline either side, case-insensitive", clashes.Filter{SortBy: "none", Discipline: str("mep")}, []string{"1", "2"}},
		{"discipline substring", clashes.Filter{SortBy: "none", Discipline: str("ARCH")}, []string{"2", "3"}},
		{"level exact", clashes.Filter{SortBy: "none", Level: str("L01")}, []string{"1", "3"}},
		{"level is not a substring match", clashes.Filter{SortBy: "none", Level: str("L0")}, []string{}},
		{"empty level is no constraint", clashes.Filter{SortBy: "none", Level: str("")}, []string{"1", "2", "3", "4"}},
		{"criteria are AND-combined", clashes.Filter{
			SortBy:     "none",
			Severity:   []clashes.Severity{clashes.SeverityHigh},
			Discipline: str("structure"),
			Level:      str("L01"),
		}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := clashes.Query(all, tt.filter)
			assert.Equal(t, tt.want, ids(page.Clashes))
			assert.Equal(t, len(tt.want), page.Total)
		})
	}
}

func TestQueryPagination(t *testing.T) {
	all := sample()

	page := clashes.Query(all, clashes.Filter{Page: 1, PageSize: 2})
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, []string{"b", "d"}, ids(page.Clashes))

	page = clashes.Query(all, clashes.Filter{Page: 3, PageSize: 2})
	assert.Equal(t, []string{"a"}, ids(page.Clashes))

	page = clashes.Query(all, clashes.Filter{Page: 4, PageSize: 2})
	require.NotNil(t, page.Clashes)
	assert.Empty(t, page.Clashes)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 4, page.Page)

	page = clashes.Query(nil, clashes.Filter{Page: 1, PageSize: 2})
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Clashes)

	page = clashes.Query(all, clashes.Filter{})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, clashes.DefaultPageSize, page.PageSize)
	assert.Len(t, page.Clashes, 5)
}

func TestQueryPagesCoverFilteredSet(t *testing.T) {
	all := clashes.NewGenerator(nil).Generate(37)

	var seen []string
	for p := 1; p <= 4; p++ {
		page := clashes.Query(all, clashes.Filter{Page: p, PageSize: 10, SortBy: "created_at", SortOrder: "asc"})
		assert.Equal(t, 4, page.TotalPages)
		seen = append(seen, ids(page.Clashes)...)
	}

	assert.Len(t, seen, 37)
	slices.Sort(seen)
	assert.Len(t, slices.Compact(seen), 37)
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{
		"severity":   {"high,low", "medium"},
		"status":     {"open"},
		"discipline": {"MEP"},
		"level":      {"L03"},
		"sort_by":    {"updated_at"},
		"sort_order": {"asc"},
		"page":       {"2"},
		"page_size":  {"25"},
	}

	f, err := clashes.FiltersFromQuery(values)
	require.NoError(t, err)

	assert.Equal(t, []clashes.Severity{clashes.SeverityHigh, clashes.SeverityLow, clashes.SeverityMedium}, f.Severity)
	assert.Equal(t, []clashes.Status{clashes.StatusOpen}, f.Status)
	require.NotNil(t, f.Discipline)
	assert.Equal(t, "MEP", *f.Discipline)
	require.NotNil(t, f.Level)
	assert.Equal(t, "L03", *f.Level)
	assert.Equal(t, "updated_at", f.SortBy)
	assert.Equal(t, "asc", f.SortOrder)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 25, f.PageSize)
}

func TestFiltersFromQueryRejects(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"unknown severity", url.Values{"severity": {"critical"}}},
		{"unknown status", url.Values{"status": {"closed"}}},
		{"unknown sort field", url.Values{"sort_by": {"title"}}},
		{"unknown sort order", url.Values{"sort_order": {"up"}}},
		{"zero page", url.Values{"page": {"0"}}},
		{"non-numeric page size", url.Values{"page_size": {"lots"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := clashes.FiltersFromQuery(tt.values)
			require.Error(t, err)
			assert.ErrorIs(t, err, clashes.ErrInvalidFilter)
		})
	}
}

func TestFilterNormalize(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 50, MaxPageSize: 200}

	f := clashes.Filter{PageSize: 1000}
	f.Normalize(cfg)

	assert.Equal(t, "severity", f.SortBy)
	assert.Equal(t, "desc", f.SortOrder)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 200, f.PageSize)
}
