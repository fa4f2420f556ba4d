package catalog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory Catalog for tests and embedded use.
// Thread-safe.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

// Put implements Catalog.
func (m *Memory) Put(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.entries[entry.Name]
	if exists && current.Revision != entry.Revision {
		return ErrConcurrentModification
	}
	if !exists && entry.Revision != 0 {
		return ErrConcurrentModification
	}

	entry.Revision++
	entry.UpdatedAt = time.Now().UTC()
	m.entries[entry.Name] = entry
	return nil
}

// Get implements Catalog.
func (m *Memory) Get(_ context.Context, name string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[name]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}

// List implements Catalog.
func (m *Memory) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete implements Catalog.
func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, name)
	return nil
}
