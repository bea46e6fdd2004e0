package storage_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techforall-fr/202510-ClashReporter/pkg/storage"
)

func TestMemoryRoundTrip(t *testing.T) {
	s := storage.NewMemory()
	ctx := context.Background()

	info, err := s.Upload(ctx, "captures/c1.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size)
	assert.Equal(t, "image/png", info.ContentType)

	rc, got, err := s.Open(ctx, "captures/c1.png")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "captures/c1.png", got.Key)

	require.NoError(t, s.Delete(ctx, "captures/c1.png"))
	_, err = s.Stat(ctx, "captures/c1.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemoryKeyValidation(t *testing.T) {
	s := storage.NewMemory()
	ctx := context.Background()

	_, err := s.Upload(ctx, "", strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, storage.ErrEmptyKey)

	_, _, err = s.Open(ctx, "captures/../secret")
	assert.ErrorIs(t, err, storage.ErrInvalidKey)

	assert.ErrorIs(t, s.Delete(ctx, "captures/missing.png"), storage.ErrNotFound)
}

func TestConfig(t *testing.T) {
	t.Setenv("TEST_STORAGE_CONN", "UseDevelopmentStorage=true")

	cfg := &storage.Config{}
	require.NoError(t, cfg.Finalize(nil))
	assert.Equal(t, storage.DefaultContainer, cfg.ContainerName)
	assert.False(t, cfg.Enabled())

	require.NoError(t, cfg.Finalize(&storage.Env{ConnectionString: "TEST_STORAGE_CONN"}))
	assert.True(t, cfg.Enabled())

	cfg.Merge(&storage.Config{ContainerName: "other"})
	assert.Equal(t, "other", cfg.ContainerName)
}

func TestNewRequiresConnection(t *testing.T) {
	_, err := storage.New(&storage.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
}

func TestMapHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, storage.MapHTTPStatus(storage.ErrNotFound))
	assert.Equal(t, 400, storage.MapHTTPStatus(storage.ErrInvalidKey))
	assert.Equal(t, 503, storage.MapHTTPStatus(storage.ErrNotConfigured))
}
