package captures

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/techforall-fr/202510-ClashReporter/pkg/storage"
)

type repo struct {
	store   storage.System
	maxSize int64
	logger  *slog.Logger
}

// New creates a capture system over store. A nil store leaves captures
// disabled and every operation returns ErrUnavailable.
func New(store storage.System, maxSize int64, logger *slog.Logger) System {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &repo{
		store:   store,
		maxSize: maxSize,
		logger:  logger.With("system", "captures"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Save(ctx context.Context, cmd SaveCommand) (*Capture, error) {
	if r.store == nil {
		return nil, ErrUnavailable
	}

	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := validateClashID(cmd.ClashID); err != nil {
		return nil, err
	}

	// The data URL prefix decodes to at most a few dozen bytes.
	if int64(base64.StdEncoding.DecodedLen(len(cmd.ImageDataURL))) > r.maxSize+64 {
		return nil, ErrTooLarge
	}

	data, err := DecodeDataURL(cmd.ImageDataURL)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.maxSize {
		return nil, ErrTooLarge
	}

	info, err := r.store.Upload(ctx, Key(cmd.ClashID), bytes.NewReader(data), ContentType)
	if err != nil {
		return nil, r.mapStorageError(err)
	}

	r.logger.Info("capture saved", "clash_id", cmd.ClashID, "size", info.Size)
	return capture(cmd.ClashID, info), nil
}

func (r *repo) Find(ctx context.Context, clashID string) (*Capture, error) {
	if r.store == nil {
		return nil, ErrUnavailable
	}
	if err := validateClashID(clashID); err != nil {
		return nil, err
	}

	info, err := r.store.Stat(ctx, Key(clashID))
	if err != nil {
		return nil, r.mapStorageError(err)
	}
	return capture(clashID, info), nil
}

func (r *repo) Open(ctx context.Context, clashID string) (io.ReadCloser, *Capture, error) {
	if r.store == nil {
		return nil, nil, ErrUnavailable
	}
	if err := validateClashID(clashID); err != nil {
		return nil, nil, err
	}

	rc, info, err := r.store.Open(ctx, Key(clashID))
	if err != nil {
		return nil, nil, r.mapStorageError(err)
	}
	return rc, capture(clashID, info), nil
}

func (r *repo) Delete(ctx context.Context, clashID string) error {
	if r.store == nil {
		return ErrUnavailable
	}
	if err := validateClashID(clashID); err != nil {
		return err
	}

	if err := r.store.Delete(ctx, Key(clashID)); err != nil {
		return r.mapStorageError(err)
	}

	r.logger.Info("capture deleted", "clash_id", clashID)
	return nil
}

func (r *repo) mapStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrEmptyKey), errors.Is(err, storage.ErrInvalidKey):
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	default:
		return err
	}
}

func capture(clashID string, info *storage.Info) *Capture {
	contentType := info.ContentType
	if contentType == "" {
		contentType = ContentType
	}
	return &Capture{
		ClashID:     clashID,
		Key:         info.Key,
		ContentType: contentType,
		Size:        info.Size,
		SavedAt:     info.LastModified,
	}
}
