package problems

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/techforall-fr/202510-ClashReporter/pkg/pagination"
	"github.com/techforall-fr/202510-ClashReporter/pkg/query"
)

type repo struct {
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time

	mu       sync.RWMutex
	problems []Problem
}

// New creates an in-memory problem store seeded with the given problems.
func New(seed []Problem, logger *slog.Logger, pagination pagination.Config) System {
	problems := make([]Problem, len(seed))
	for i, p := range seed {
		problems[i] = p.clone()
	}
	return &repo{
		logger:     logger.With("system", "problems"),
		pagination: pagination,
		now:        time.Now,
		problems:   problems,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Problem], error) {
	page.Normalize(r.pagination)

	b := query.NewBuilder(projection, defaultSort).OrderByFields(page.Sort)
	filters.Apply(b)

	r.mu.RLock()
	matched := b.Filter(r.problems)
	r.mu.RUnlock()

	b.Sort(matched)
	for i := range matched {
		matched[i] = matched[i].clone()
	}

	result := pagination.Paginate(matched, page)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id string) (*Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	p := r.problems[i].clone()
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Problem, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	if cmd.Status == "" {
		cmd.Status = StatusOpen
	}
	if cmd.Priority == "" {
		cmd.Priority = PriorityMedium
	}

	now := r.now().UTC()
	title := cmd.Title
	p := Problem{
		ID:          uuid.NewString(),
		Title:       cmd.Title,
		Description: cmd.Description,
		Status:      cmd.Status,
		Priority:    cmd.Priority,
		AssignedTo:  cmd.AssignedTo,
		DueDate:     cmd.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
		References:  []Reference{{Type: ReferenceClash, ID: cmd.ClashID, Title: &title}},
		ClashIDs:    []string{cmd.ClashID},
	}

	r.mu.Lock()
	r.problems = append(r.problems, p)
	r.mu.Unlock()

	r.logger.Info("problem created", "id", p.ID, "clash_id", cmd.ClashID)

	out := p.clone()
	return &out, nil
}

func (r *repo) Link(ctx context.Context, id string, cmd LinkCommand) (*Problem, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}

	return r.update(id, func(p *Problem) bool {
		if p.LinkedTo(cmd.ClashID) {
			return false
		}
		p.ClashIDs = append(p.ClashIDs, cmd.ClashID)
		p.References = append(p.References, Reference{Type: ReferenceClash, ID: cmd.ClashID})
		return true
	})
}

func (r *repo) Unlink(ctx context.Context, id string, clashID string) (*Problem, error) {
	if clashID == "" {
		return nil, fmt.Errorf("%w: clash_id is required", ErrInvalid)
	}

	return r.update(id, func(p *Problem) bool {
		if !p.LinkedTo(clashID) {
			return false
		}

		ids := p.ClashIDs[:0]
		for _, cid := range p.ClashIDs {
			if cid != clashID {
				ids = append(ids, cid)
			}
		}
		p.ClashIDs = ids

		refs := p.References[:0]
		for _, ref := range p.References {
			if ref.ID != clashID {
				refs = append(refs, ref)
			}
		}
		p.References = refs
		return true
	})
}

// update applies mutate to the stored problem under the write lock and
// bumps UpdatedAt when mutate reports a change.
func (r *repo) update(id string, mutate func(*Problem) bool) (*Problem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	p := r.problems[i].clone()
	if mutate(&p) {
		p.UpdatedAt = r.now().UTC()
		r.problems[i] = p
		r.logger.Info("problem references updated", "id", id, "clash_ids", len(p.ClashIDs))
	}

	out := p.clone()
	return &out, nil
}

func (r *repo) index(id string) int {
	for i, p := range r.problems {
		if p.ID == id {
			return i
		}
	}
	return -1
}
