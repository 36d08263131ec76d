package persistence

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/tempora-uz/tempora/modules/timetracking/importer"
)

type memoryRecord struct {
	id  uuid.UUID
	row importer.Row
}

// MemoryRowStore keeps rows in memory, preserving insertion order per
// table. It backs unit tests and dry runs where no database is wired.
type MemoryRowStore struct {
	mu     sync.Mutex
	tables map[string][]memoryRecord
}

func NewMemoryRowStore() *MemoryRowStore {
	return &MemoryRowStore{tables: map[string][]memoryRecord{}}
}

func (s *MemoryRowStore) Insert(_ context.Context, table string, id uuid.UUID, row importer.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append(s.tables[table], memoryRecord{id: id, row: row.Clone()})
	return nil
}

func (s *MemoryRowStore) FindOne(_ context.Context, table string, match importer.Row) (uuid.UUID, importer.Row, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.tables[table] {
		if rowMatches(rec.row, match) {
			return rec.id, rec.row.Clone(), true, nil
		}
	}
	return uuid.Nil, nil, false, nil
}

func (s *MemoryRowStore) GetByID(_ context.Context, table string, id uuid.UUID) (importer.Row, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.tables[table] {
		if rec.id == id {
			return rec.row.Clone(), true, nil
		}
	}
	return nil, false, nil
}

// Rows returns the stored rows of a table in insertion order.
func (s *MemoryRowStore) Rows(table string) []importer.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]importer.Row, 0, len(s.tables[table]))
	for _, rec := range s.tables[table] {
		out = append(out, rec.row.Clone())
	}
	return out
}

// Count returns the number of rows stored for a table.
func (s *MemoryRowStore) Count(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables[table])
}

func rowMatches(row, match importer.Row) bool {
	for col, want := range match {
		got, ok := row[col]
		if !ok {
			if want != nil {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
