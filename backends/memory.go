package backends

import (
	"sync"

	"github.com/tcallahan/flog/core"
)

// Memory stores records in memory for testing.
type Memory struct {
	mu      sync.RWMutex
	records []core.Record
}

// NewMemory creates an empty memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

// Log stores a copy of the record. Metadata and tags are immutable, so the
// shallow copy is safe.
func (m *Memory) Log(record *core.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *record)
	return nil
}

// Close does nothing.
func (m *Memory) Close() error { return nil }

// Records returns a copy of all stored records.
func (m *Memory) Records() []core.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Record, len(m.records))
	copy(out, m.records)
	return out
}

// Count returns the number of stored records.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Clear removes all stored records.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = m.records[:0]
}

// Find returns the records matching the predicate.
func (m *Memory) Find(predicate func(*core.Record) bool) []core.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Record
	for i := range m.records {
		if predicate(&m.records[i]) {
			out = append(out, m.records[i])
		}
	}
	return out
}

// Messages returns the formatted message of every stored record, in order.
func (m *Memory) Messages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.records))
	for i := range m.records {
		out[i] = m.records[i].Message()
	}
	return out
}
