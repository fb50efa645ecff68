// Package store keeps the records collected during a single run.
package store

import (
	"sync"

	"github.com/law-makers/collegecrawl/pkg/models"
)

// RecordStore is an insertion-ordered, de-duplicated set of valid records.
// It is safe for concurrent use so the consumer can snapshot while a run is active.
type RecordStore struct {
	mu      sync.RWMutex
	records []*models.CollegeRecord
	keys    map[string]struct{}
}

// New creates an empty RecordStore.
func New() *RecordStore {
	return &RecordStore{keys: make(map[string]struct{})}
}

// Add appends the record if it is valid and not already present (same name and
// location, case-insensitive). It reports whether the record was stored.
func (s *RecordStore) Add(r *models.CollegeRecord) bool {
	if !r.Valid() {
		return false
	}

	key := r.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[key]; exists {
		return false
	}
	s.keys[key] = struct{}{}
	s.records = append(s.records, r)
	return true
}

// List returns a snapshot of the stored records in insertion order.
func (s *RecordStore) List() []*models.CollegeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.CollegeRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Clear removes all records.
func (s *RecordStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.keys = make(map[string]struct{})
}

// Count returns the number of stored records.
func (s *RecordStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Rows flattens every record into the export column map.
func (s *RecordStore) Rows() []map[string]string {
	records := s.List()
	rows := make([]map[string]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Flatten())
	}
	return rows
}
