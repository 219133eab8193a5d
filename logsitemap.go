package flog

import (
	"sync"

	"github.com/tcallahan/flog/core"
)

// LogSiteMap holds per-call-site state of type T, such as rate limiter
// counters. Entries are created on first use and live for the life of the
// process, except entries keyed to a scope: those are removed when the
// scope closes.
//
// The zero value is ready to use.
type LogSiteMap[T any] struct {
	mu      sync.RWMutex
	entries map[core.LogSiteKey]*T
}

// NewLogSiteMap returns an empty map.
func NewLogSiteMap[T any]() *LogSiteMap[T] {
	return &LogSiteMap[T]{}
}

// GetOrCreate returns the state for key, creating it with create on first
// use. Under concurrent first use create may run more than once; exactly one
// result is kept. State keyed to an already closed scope is returned
// untracked, so stragglers logging after their scope ended cannot leak
// entries.
func (m *LogSiteMap[T]) GetOrCreate(key core.LogSiteKey, create func() *T) *T {
	m.mu.RLock()
	state, ok := m.entries[key]
	m.mu.RUnlock()
	if ok {
		return state
	}

	state = create()

	scope, scoped := core.ScopeOf(key)
	if scoped && scope.Closed() {
		return state
	}

	m.mu.Lock()
	if existing, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return existing
	}
	if m.entries == nil {
		m.entries = make(map[core.LogSiteKey]*T)
	}
	m.entries[key] = state
	m.mu.Unlock()

	// If the scope closed between the check above and the insert, the hook
	// runs immediately and removes the entry again.
	if scoped {
		scope.OnClose(func() { m.Remove(key) })
	}
	return state
}

// Get returns the state for key without creating it.
func (m *LogSiteMap[T]) Get(key core.LogSiteKey) (*T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.entries[key]
	return state, ok
}

// Contains reports whether state exists for key.
func (m *LogSiteMap[T]) Contains(key core.LogSiteKey) bool {
	_, ok := m.Get(key)
	return ok
}

// Remove deletes the state for key.
func (m *LogSiteMap[T]) Remove(key core.LogSiteKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Len returns the number of tracked sites.
func (m *LogSiteMap[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
