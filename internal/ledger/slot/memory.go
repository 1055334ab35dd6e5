package slot

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps slots in process memory. Nothing survives a restart.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.slots[key]
	if !ok {
		return nil, false, nil
	}

	return slices.Clone(data), true, nil
}

func (m *Memory) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[key] = slices.Clone(data)

	return nil
}
