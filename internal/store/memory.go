package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store, mostly useful for tests and dry runs.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
	// FailWrites makes every Set return the given error when non-nil.
	FailWrites error
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

func (m *Memory) Close() error { return nil }
