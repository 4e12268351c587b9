package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/stratadb/strata/internal/scalar"
)

// Memory is an in-process record store. All methods are safe for concurrent
// use; Records hands out a snapshot so readers observe a consistent view
// even while writers are appending.
type Memory struct {
	mu      sync.RWMutex
	records []scalar.Record
}

// NewMemory creates an empty memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Insert stores a copy of the record, assigning a UUIDv7 id when the record
// carries none, and returns the stored copy.
func (m *Memory) Insert(rec scalar.Record) scalar.Record {
	stored := rec.Clone()
	if v, ok := stored["id"]; !ok || scalar.IsNull(v) {
		stored["id"] = scalar.String(uuid.Must(uuid.NewV7()).String())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, stored)
	return stored.Clone()
}

// Records returns a snapshot of all records in insertion order. The caller
// may filter, sort, and project the snapshot without further locking.
func (m *Memory) Records() []scalar.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]scalar.Record, len(m.records))
	for i, rec := range m.records {
		out[i] = rec.Clone()
	}
	return out
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// replace swaps the full record set. Used by the file store after a load.
func (m *Memory) replace(records []scalar.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}
