package captures

import (
	"context"
	"io"
)

// System defines the public contract for clash capture operations.
type System interface {
	Handler() *Handler

	Save(ctx context.Context, cmd SaveCommand) (*Capture, error)
	Find(ctx context.Context, clashID string) (*Capture, error)
	Open(ctx context.Context, clashID string) (io.ReadCloser, *Capture, error)
	Delete(ctx context.Context, clashID string) error
}
