// Package storage keeps named blobs of persisted state.
package storage

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("store not found")

// Backend persists opaque documents under a store name. Save replaces the
// whole document.
type Backend interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Close() error
}

// MemoryStorage is a Backend that lives only as long as the process.
type MemoryStorage struct {
	mu     sync.RWMutex
	stores map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{stores: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.stores[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryStorage) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stores[name] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
