package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tempora-uz/tempora/modules/timetracking/importer"
	"github.com/tempora-uz/tempora/pkg/composables"
)

// PgRowStore implements importer.RowStore over the pgx transaction (or
// pool) bound to the context.
type PgRowStore struct{}

func NewPgRowStore() *PgRowStore {
	return &PgRowStore{}
}

func (s *PgRowStore) Insert(ctx context.Context, table string, id uuid.UUID, row importer.Row) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	columns := sortedColumns(row)
	names := make([]string, 0, len(columns)+1)
	placeholders := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+1)

	names = append(names, "id")
	placeholders = append(placeholders, "$1")
	args = append(args, id)
	for i, col := range columns {
		names = append(names, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
		args = append(args, row[col])
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "),
	)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "insert into %s", table)
	}
	return nil
}

func (s *PgRowStore) FindOne(ctx context.Context, table string, match importer.Row) (uuid.UUID, importer.Row, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return uuid.Nil, nil, false, err
	}

	var where []string
	var args []any
	for _, col := range sortedColumns(match) {
		if match[col] == nil {
			where = append(where, col+" IS NULL")
			continue
		}
		args = append(args, match[col])
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	query := fmt.Sprintf("SELECT * FROM %s", table)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " LIMIT 1"

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return uuid.Nil, nil, false, errors.Wrapf(err, "query %s", table)
	}
	raw, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil, false, nil
	}
	if err != nil {
		return uuid.Nil, nil, false, errors.Wrapf(err, "scan %s", table)
	}
	id, row, err := splitID(raw)
	if err != nil {
		return uuid.Nil, nil, false, errors.Wrapf(err, "scan %s", table)
	}
	return id, row, true, nil
}

func (s *PgRowStore) GetByID(ctx context.Context, table string, id uuid.UUID) (importer.Row, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, false, err
	}
	rows, err := tx.Query(ctx, fmt.Sprintf("SELECT * FROM %s WHERE id = $1", table), id)
	if err != nil {
		return nil, false, errors.Wrapf(err, "query %s", table)
	}
	raw, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "scan %s", table)
	}
	_, row, err := splitID(raw)
	if err != nil {
		return nil, false, errors.Wrapf(err, "scan %s", table)
	}
	return row, true, nil
}

func splitID(raw map[string]any) (uuid.UUID, importer.Row, error) {
	row := importer.Row(raw)
	id, err := uuidFromColumn(raw["id"])
	if err != nil {
		return uuid.Nil, nil, err
	}
	delete(row, "id")
	return id, row, nil
}

func uuidFromColumn(v any) (uuid.UUID, error) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, nil
	case [16]byte:
		return uuid.UUID(t), nil
	case string:
		return uuid.Parse(t)
	}
	return uuid.Nil, errors.Errorf("unexpected id column type %T", v)
}

func sortedColumns(row importer.Row) []string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}
