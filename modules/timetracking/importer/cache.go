package importer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CacheConfig describes how one entity type is reconciled.
type CacheConfig struct {
	// Table the cache reads and writes.
	Table string
	// Scope is merged into every lookup and every created row, confining
	// the cache to the current organization (and, for users, to
	// placeholder identities).
	Scope Row
	// Rules maps a column to a validator/v10 tag applied before insert.
	Rules map[string]string
	// BeforeSave mutates the merged row right before persistence, e.g.
	// normalizing a zero rate to NULL.
	BeforeSave func(Row)
}

// Cache resolves natural keys to internal ids with get-or-create
// semantics. Rows matched in storage or created earlier in the run are
// memoized; external source identifiers are tracked in a secondary index.
type Cache struct {
	cfg      CacheConfig
	store    RowStore
	validate *validator.Validate

	byKey      map[string]uuid.UUID
	byExternal map[string]uuid.UUID
	extOrder   []string
	rows       map[uuid.UUID]Row
	created    int
}

func NewCache(store RowStore, cfg CacheConfig) *Cache {
	return &Cache{
		cfg:        cfg,
		store:      store,
		validate:   validator.New(),
		byKey:      map[string]uuid.UUID{},
		byExternal: map[string]uuid.UUID{},
		rows:       map[uuid.UUID]Row{},
	}
}

// GetOrCreateID resolves key to an internal id, creating the row from
// key+attrs when neither the in-memory map nor storage has a match.
// A non-empty externalID is registered in the secondary index either way;
// re-registering one against a different row is a referential error.
func (c *Cache) GetOrCreateID(ctx context.Context, key Row, attrs Row, externalID string) (uuid.UUID, error) {
	k := keyString(key)
	if id, ok := c.byKey[k]; ok {
		if err := c.registerExternal(externalID, id); err != nil {
			return uuid.Nil, err
		}
		return id, nil
	}

	match := c.cfg.Scope.Clone()
	for col, v := range key {
		match[col] = v
	}
	id, row, found, err := c.store.FindOne(ctx, c.cfg.Table, match)
	if err != nil {
		return uuid.Nil, SystemError(errors.Wrapf(err, "lookup %s", c.cfg.Table))
	}
	if found {
		if err := c.registerExternal(externalID, id); err != nil {
			return uuid.Nil, err
		}
		c.byKey[k] = id
		c.rows[id] = row
		return id, nil
	}

	row = match.Clone()
	for col, v := range attrs {
		if _, taken := row[col]; !taken {
			row[col] = v
		}
	}
	if err := c.validateRow(row); err != nil {
		return uuid.Nil, err
	}
	if c.cfg.BeforeSave != nil {
		c.cfg.BeforeSave(row)
	}

	id = uuid.New()
	if err := c.registerExternal(externalID, id); err != nil {
		return uuid.Nil, err
	}
	if err := c.store.Insert(ctx, c.cfg.Table, id, row); err != nil {
		return uuid.Nil, SystemError(errors.Wrapf(err, "insert %s", c.cfg.Table))
	}
	c.byKey[k] = id
	c.rows[id] = row
	c.created++
	return id, nil
}

// Create persists a row unconditionally; used for time entries, which are
// never deduplicated.
func (c *Cache) Create(ctx context.Context, attrs Row) (uuid.UUID, error) {
	row := c.cfg.Scope.Clone()
	for col, v := range attrs {
		row[col] = v
	}
	if err := c.validateRow(row); err != nil {
		return uuid.Nil, err
	}
	if c.cfg.BeforeSave != nil {
		c.cfg.BeforeSave(row)
	}
	id := uuid.New()
	if err := c.store.Insert(ctx, c.cfg.Table, id, row); err != nil {
		return uuid.Nil, SystemError(errors.Wrapf(err, "insert %s", c.cfg.Table))
	}
	c.rows[id] = row
	c.created++
	return id, nil
}

// GetIDByExternalID looks an external identifier up in the secondary
// index only; it never falls back to storage.
func (c *Cache) GetIDByExternalID(externalID string) (uuid.UUID, bool) {
	id, ok := c.byExternal[externalID]
	return id, ok
}

// GetEntityByID returns the full row for an id resolved earlier in the
// run, fetching from storage when only the id was cached.
func (c *Cache) GetEntityByID(ctx context.Context, id uuid.UUID) (Row, error) {
	if row, ok := c.rows[id]; ok {
		return row, nil
	}
	row, found, err := c.store.GetByID(ctx, c.cfg.Table, id)
	if err != nil {
		return nil, SystemError(errors.Wrapf(err, "fetch %s", c.cfg.Table))
	}
	if !found {
		return nil, SystemError(errors.Errorf("%s row %s disappeared mid-run", c.cfg.Table, id))
	}
	c.rows[id] = row
	return row, nil
}

// CreatedCount reports rows actually inserted; pre-existing matches are
// not counted.
func (c *Cache) CreatedCount() int {
	return c.created
}

// ExternalIDs enumerates registered external identifiers in first-seen
// order.
func (c *Cache) ExternalIDs() []string {
	out := make([]string, len(c.extOrder))
	copy(out, c.extOrder)
	return out
}

// registerExternal binds an external identifier to an internal id for
// the remainder of the run. A repeat of an existing binding is a no-op;
// the same identifier arriving for a different row is an input defect.
func (c *Cache) registerExternal(externalID string, id uuid.UUID) error {
	if externalID == "" {
		return nil
	}
	if existing, seen := c.byExternal[externalID]; seen {
		if existing != id {
			return ReferentialErrorf("conflicting external id: %s", externalID)
		}
		return nil
	}
	c.extOrder = append(c.extOrder, externalID)
	c.byExternal[externalID] = id
	return nil
}

func (c *Cache) validateRow(row Row) error {
	for column, rule := range c.cfg.Rules {
		v, ok := row[column]
		if !ok || v == nil {
			if strings.Contains(rule, "required") {
				return ValidationErrorf("%s is required", column)
			}
			continue
		}
		if err := c.validate.Var(v, rule); err != nil {
			return ValidationErrorf("invalid %s: %q", column, fmt.Sprintf("%v", v))
		}
	}
	return nil
}

func keyString(key Row) string {
	cols := make([]string, 0, len(key))
	for col := range key {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(col)
		b.WriteByte('=')
		fmt.Fprintf(&b, "%v", key[col])
	}
	return b.String()
}
