package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the in-memory store when no limit is configured.
const DefaultMaxEntries = 1000

// Memory is a bounded in-process store. When an insertion would exceed the
// configured entry count it evicts the least-recently-inserted entry.
// Eviction is insertion-ordered rather than access-ordered, which keeps every
// operation O(1) without access tracking.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]*Entry
	order      []string // insertion order, oldest first

	now func() time.Time
}

// NewMemory creates an in-memory store holding at most maxEntries entries.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		maxEntries: maxEntries,
		entries:    make(map[string]*Entry),
		order:      make([]string, 0, maxEntries),
		now:        time.Now,
	}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key Key) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key.String()
	entry, ok := m.entries[k]
	if !ok {
		cacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	if entry.ExpiredAt(m.now()) {
		m.remove(k)
		cacheMisses.Inc()
		return nil, ErrCacheMiss
	}

	cacheHits.WithLabelValues(layerMemory).Inc()
	return entry, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return ErrInvalidEntry
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	k := key.String()
	if _, ok := m.entries[k]; ok {
		// Overwrite keeps the original insertion position.
		m.entries[k] = entry
		return nil
	}

	if len(m.order) >= m.maxEntries {
		m.remove(m.order[0])
		cacheEvictions.Inc()
	}

	m.entries[k] = entry
	m.order = append(m.order, k)
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.remove(key.String())
	return nil
}

// Clear implements Store.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*Entry)
	m.order = m.order[:0]
	return nil
}

// Len returns the current number of entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// remove deletes k from the map and the insertion list. Caller must hold mu.
func (m *Memory) remove(k string) {
	if _, ok := m.entries[k]; !ok {
		return
	}
	delete(m.entries, k)
	for i, o := range m.order {
		if o == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}
