package metastore

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-menufields/pkg/platform"
)

// Memory is a concurrency-safe in-memory metadata store.
type Memory struct {
	mu    sync.RWMutex
	items map[int]map[string]any
}

var _ platform.MetaStore = (*Memory)(nil)

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{items: make(map[int]map[string]any)}
}

// Get implements platform.MetaStore.
func (m *Memory) Get(_ context.Context, itemID int, key string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[itemID][key], nil
}

// Set implements platform.MetaStore.
func (m *Memory) Set(_ context.Context, itemID int, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.items[itemID]
	if !ok {
		meta = make(map[string]any)
		m.items[itemID] = meta
	}
	meta[key] = value
	return nil
}

// Delete implements platform.MetaStore.
func (m *Memory) Delete(_ context.Context, itemID int, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.items[itemID]
	if !ok {
		return nil
	}
	delete(meta, key)
	if len(meta) == 0 {
		delete(m.items, itemID)
	}
	return nil
}

// Snapshot returns a copy of every key stored for itemID.
func (m *Memory) Snapshot(itemID int) map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	meta := m.items[itemID]
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]any, len(meta))
	for key, value := range meta {
		out[key] = value
	}
	return out
}

// Items returns the ids holding at least one key, sorted.
func (m *Memory) Items() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
