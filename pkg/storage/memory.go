package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/techforall-fr/202510-ClashReporter/pkg/lifecycle"
)

type object struct {
	data []byte
	info Info
}

type memory struct {
	mu      sync.RWMutex
	objects map[string]object
}

// NewMemory creates a process-local blob store. Contents are lost on exit.
func NewMemory() System {
	return &memory{objects: make(map[string]object)}
}

func (m *memory) Start(lc *lifecycle.Coordinator) error {
	return nil
}

func (m *memory) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (*Info, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("upload blob %s: %w", key, err)
	}

	info := Info{
		Key:          key,
		ContentType:  contentType,
		Size:         int64(len(data)),
		LastModified: time.Now().UTC(),
	}

	m.mu.Lock()
	m.objects[key] = object{data: data, info: info}
	m.mu.Unlock()

	return &info, nil
}

func (m *memory) Open(ctx context.Context, key string) (io.ReadCloser, *Info, error) {
	obj, err := m.lookup(key)
	if err != nil {
		return nil, nil, err
	}
	info := obj.info
	return io.NopCloser(bytes.NewReader(obj.data)), &info, nil
}

func (m *memory) Stat(ctx context.Context, key string) (*Info, error) {
	obj, err := m.lookup(key)
	if err != nil {
		return nil, err
	}
	info := obj.info
	return &info, nil
}

func (m *memory) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[key]; !ok {
		return ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *memory) lookup(key string) (object, error) {
	if err := validateKey(key); err != nil {
		return object{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return object{}, ErrNotFound
	}
	return obj, nil
}
