// Package memory provides an in-memory Blob for tests and demos.
package memory

import (
	"context"
	"sync"

	"github.com/vesselflow/ppe-engine/store"
)

// =============================================================================
// MEMORY BLOB - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	puts   int
	fail   error
}

func New() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

// Driver identifies the backend.
func (m *Memory) Driver() store.Driver { return store.DriverMemory }

// Get returns a copy of the stored value.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put overwrites the value at key.
func (m *Memory) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		return m.fail
	}
	v := make([]byte, len(data))
	copy(v, data)
	m.values[key] = v
	m.puts++
	return nil
}

// FailPuts makes every later Put return err. Pass nil to stop failing.
func (m *Memory) FailPuts(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// Puts returns how many Put calls succeeded.
func (m *Memory) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}
