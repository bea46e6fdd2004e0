package problems

import (
	"context"

	"github.com/techforall-fr/202510-ClashReporter/pkg/pagination"
)

// System defines the public contract for problem domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Problem], error)

	Find(ctx context.Context, id string) (*Problem, error)
	Create(ctx context.Context, cmd CreateCommand) (*Problem, error)
	Link(ctx context.Context, id string, cmd LinkCommand) (*Problem, error)
	Unlink(ctx context.Context, id string, clashID string) (*Problem, error)
}
