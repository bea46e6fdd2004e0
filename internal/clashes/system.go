package clashes

import "context"

// Source produces a freshly joined clash collection from the live upstream
// service. Any error means the source is unavailable.
type Source interface {
	FetchClashes(ctx context.Context) ([]Clash, error)
}

// System defines the public contract for clash domain operations.
type System interface {
	Handler() *Handler

	// GetAll returns the cached collection, populating it on first use or
	// when forceRefresh is set. Live failures fall back to synthetic data.
	GetAll(ctx context.Context, forceRefresh bool) ([]Clash, error)

	List(ctx context.Context, filter Filter) (*Page, error)
	Find(ctx context.Context, id string) (*Clash, error)
	Refresh(ctx context.Context) (Info, error)

	// Invalidate drops the cached collection so the next read refreshes.
	Invalidate()

	// Info describes the cached collection. The zero Info means nothing is cached.
	Info() Info
}
