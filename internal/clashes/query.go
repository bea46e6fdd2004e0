package clashes

import (
	"github.com/techforall-fr/202510-ClashReporter/pkg/pagination"
	"github.com/techforall-fr/202510-ClashReporter/pkg/query"
)

// DefaultPageSize applies when a filter carries no page size.
const DefaultPageSize = 50

// Query filters, sorts and paginates clashes. The input slice is not
// modified. Sorting is stable, so clashes with equal keys keep their input
// order. A page past the last one yields an empty Clashes slice.
func Query(clashes []Clash, filter Filter) Page {
	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	qb := query.NewBuilder(projection)
	filter.Apply(qb)
	qb.OrderByFields(filter.Ordering())

	matched := qb.Build(clashes)

	return Page{
		Clashes:    pagination.Slice(matched, page, pageSize),
		Total:      len(matched),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pagination.TotalPages(len(matched), pageSize),
	}
}

// Match returns the clashes satisfying the filter's criteria in input order.
// Ordering and paging fields are ignored.
func Match(clashes []Clash, filter Filter) []Clash {
	qb := query.NewBuilder(projection)
	filter.Apply(qb)
	return qb.Filter(clashes)
}
