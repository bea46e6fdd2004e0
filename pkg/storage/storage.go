// Package storage provides blob storage for clash captures, backed by Azure
// Blob Storage or an in-process map.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/techforall-fr/202510-ClashReporter/pkg/lifecycle"
)

// Info describes a stored blob.
type Info struct {
	Key          string    `json:"key"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// System manages blob storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the storage container.
	Start(lc *lifecycle.Coordinator) error
	// Upload stores data at key with the given content type, replacing any existing blob.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (*Info, error)
	// Open returns a stream for the blob at key. The caller must close the reader.
	// Returns ErrNotFound if the blob does not exist.
	Open(ctx context.Context, key string) (io.ReadCloser, *Info, error)
	// Stat describes the blob at key. Returns ErrNotFound if the blob does not exist.
	Stat(ctx context.Context, key string) (*Info, error)
	// Delete removes the blob at key. Returns ErrNotFound if the blob does not exist.
	Delete(ctx context.Context, key string) error
}

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// New creates an Azure-backed storage system from the given configuration.
// The container is created by the startup hook registered in Start.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage"),
	}, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system", "container", a.container)

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			a.logger.Error("storage container initialization failed", "error", err)
			return
		}
		a.logger.Info("storage container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (*Info, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	if _, err := a.client.UploadStream(ctx, a.container, key, reader, opts); err != nil {
		return nil, fmt.Errorf("upload blob %s: %w", key, err)
	}

	return a.Stat(ctx, key)
}

func (a *azure) Open(ctx context.Context, key string) (io.ReadCloser, *Info, error) {
	if err := validateKey(key); err != nil {
		return nil, nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	info := &Info{
		Key:          key,
		ContentType:  deref(resp.ContentType),
		Size:         deref(resp.ContentLength),
		LastModified: deref(resp.LastModified),
	}
	return resp.Body, info, nil
}

func (a *azure) Stat(ctx context.Context, key string) (*Info, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	props, err := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key).
		GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat blob %s: %w", key, err)
	}

	return &Info{
		Key:          key,
		ContentType:  deref(props.ContentType),
		Size:         deref(props.ContentLength),
		LastModified: deref(props.LastModified),
	}, nil
}

func (a *azure) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := a.client.DeleteBlob(ctx, a.container, key, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
