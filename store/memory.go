// Package store provides ledger store implementations: an in-memory store
// for tests and embedded hosts, a Redis-backed store, and a Postgres-backed
// store. All satisfy xapay.Store; Apply is atomic in every implementation.
package store

import (
	"context"
	"sync"

	"github.com/xapay/xapay-go"
)

// Memory is a concurrency-safe in-memory store. Snapshot support makes it
// the reference implementation for rejection-leaves-no-trace tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get implements xapay.Store.
func (m *Memory) Get(_ context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[string(key)]
	if !ok {
		return nil, xapay.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Has implements xapay.Store.
func (m *Memory) Has(_ context.Context, key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[string(key)]
	return ok, nil
}

// Apply implements xapay.Store. The whole batch lands under one lock.
func (m *Memory) Apply(_ context.Context, writes []xapay.Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range writes {
		m.data[string(w.Key)] = append([]byte(nil), w.Value...)
	}
	return nil
}

// Len returns the number of persisted entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Snapshot returns a deep copy of the current contents.
func (m *Memory) Snapshot() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		snap[k] = append([]byte(nil), v...)
	}
	return snap
}
