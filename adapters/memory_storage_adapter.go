package adapters

import "sync"

// MemoryStorageAdapter is an in-process StorageAdapter. It is the default
// session-scoped store: its lifetime is the process, so a fresh process is
// a fresh session scope.
type MemoryStorageAdapter struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ StorageAdapter = (*MemoryStorageAdapter)(nil)

// NewMemoryStorageAdapter creates a new empty MemoryStorageAdapter.
func NewMemoryStorageAdapter() *MemoryStorageAdapter {
	return &MemoryStorageAdapter{values: make(map[string]string)}
}

func (m *MemoryStorageAdapter) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryStorageAdapter) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorageAdapter) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStorageAdapter) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}
