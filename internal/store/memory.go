package store

import (
	"context"
	"sync"

	"github.com/casalink-ph/casalink-backend/internal/bus"
)

// Memory is a map-backed Store for tests and for single-process use.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
	bus  bus.Bus
}

// NewMemory returns an empty in-memory store publishing on changeBus.
func NewMemory(changeBus bus.Bus) *Memory {
	return &Memory{
		data: make(map[string][]byte),
		bus:  changeBus,
	}
}

func (m *Memory) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, nil
}

func (m *Memory) Write(ctx context.Context, key string, value []byte) error {
	copied := make([]byte, len(value))
	copy(copied, value)

	m.mu.Lock()
	m.data[key] = copied
	m.mu.Unlock()

	if m.bus != nil {
		m.bus.Publish(ctx, key)
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()

	if m.bus != nil {
		m.bus.Publish(ctx, key)
	}
	return nil
}
