package importer

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Row is a column-to-value mapping for one persisted entity. Values are
// scalars (string, int64, bool, time.Time, uuid.UUID), []uuid.UUID for id
// lists, or nil.
type Row map[string]any

// Clone returns a shallow copy; callers mutate rows before insert.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RowStore is the minimal persistence contract the reconciliation engine
// needs: insert a row, find one row by equality predicates, fetch by id.
type RowStore interface {
	Insert(ctx context.Context, table string, id uuid.UUID, row Row) error
	// FindOne matches rows where every column in match equals the given
	// value (nil matches NULL). The bool reports whether a row was found.
	FindOne(ctx context.Context, table string, match Row) (uuid.UUID, Row, bool, error)
	GetByID(ctx context.Context, table string, id uuid.UUID) (Row, bool, error)
}

// Int64Column reads an integer column tolerating the width the backend
// hands back; zero and NULL both come out as nil per the money rule.
func Int64Column(row Row, column string) *int64 {
	v, ok := row[column]
	if !ok || v == nil {
		return nil
	}
	var n int64
	switch t := v.(type) {
	case int64:
		n = t
	case int32:
		n = int64(t)
	case int:
		n = int64(t)
	case *int64:
		if t == nil {
			return nil
		}
		n = *t
	default:
		return nil
	}
	if n == 0 {
		return nil
	}
	return &n
}

// BoolColumn reads a boolean column; NULL and absent read as false.
func BoolColumn(row Row, column string) bool {
	b, _ := row[column].(bool)
	return b
}

// StringColumn reads a text column; NULL and absent read as "".
func StringColumn(row Row, column string) string {
	s, _ := row[column].(string)
	return s
}

// TimeColumn reads a timestamp column; NULL and absent read as nil.
func TimeColumn(row Row, column string) *time.Time {
	switch t := row[column].(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	}
	return nil
}
