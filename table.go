package xcrud

import (
	"context"
	"errors"
)

// Table binds a record type to a table name and a database handle. Every
// method builds one statement, hands it to the configured logger, runs it
// with a single driver call and, for reads, maps the rows back into T.
//
// The column set of T is resolved once, in NewTable. A Table holds no other
// state and may be shared; With returns a copy bound to another handle, which
// is how a Table joins a transaction.
type Table[T any] struct {
	db     DBTX
	name   string
	schema *Schema[T]
	cfg    Config
}

// NewTable returns a Table for records of type T stored in table name.
// T must be a struct or implement [Mapped]. A nil cfg means the zero Config.
func NewTable[T any](db DBTX, name string, cfg *Config) (*Table[T], error) {
	s, err := SchemaOf[T]()
	if err != nil {
		return nil, err
	}
	t := &Table[T]{db: db, name: name, schema: s}
	if cfg != nil {
		t.cfg = *cfg
	}
	return t, nil
}

// With returns a copy of t that runs its statements on db (typically a
// *sql.Tx handed out by RunTx).
func (t *Table[T]) With(db DBTX) *Table[T] {
	c := *t
	c.db = db
	return &c
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// Schema returns the column set of T.
func (t *Table[T]) Schema() *Schema[T] { return t.schema }

// Insert writes items with a single multi-row INSERT. With no items it does
// nothing and issues no statement.
func (t *Table[T]) Insert(ctx context.Context, items ...T) error {
	query, err := BuildInsert(t.name, t.schema.Names(), t.literalRows(items))
	if errors.Is(err, ErrEmptyBatch) {
		return nil
	}
	if err != nil {
		return err
	}
	return t.exec(ctx, query)
}

// Upsert writes items with a single INSERT ... ON DUPLICATE KEY UPDATE that
// overwrites every column except key. key must name a column of T. With no
// items it does nothing and issues no statement.
func (t *Table[T]) Upsert(ctx context.Context, items []T, key string) error {
	kf, err := t.schema.Key(key)
	if err != nil {
		return err
	}
	query, err := BuildUpsert(t.name, t.schema.Names(), t.literalRows(items), kf.Name)
	if errors.Is(err, ErrEmptyBatch) {
		return nil
	}
	if err != nil {
		return err
	}
	return t.exec(ctx, query)
}

// Update overwrites the row whose key column equals item's key value with
// item's other columns.
func (t *Table[T]) Update(ctx context.Context, item T, key string) error {
	kf, err := t.schema.Key(key)
	if err != nil {
		return err
	}
	query, err := BuildUpdate(t.name, t.schema.Names(), t.schema.Literals(&item), kf.Name, FormatValue(kf.Get(&item)))
	if err != nil {
		return err
	}
	return t.exec(ctx, query)
}

// Delete removes the rows whose key column equals value.
func (t *Table[T]) Delete(ctx context.Context, key string, value any) error {
	kf, err := t.schema.Key(key)
	if err != nil {
		return err
	}
	query, err := BuildDelete(t.name, kf.Name, FormatValue(value))
	if err != nil {
		return err
	}
	return t.exec(ctx, query)
}

// Select returns the rows matching where, a raw SQL predicate inserted after
// WHERE. A blank where selects every row.
func (t *Table[T]) Select(ctx context.Context, where string) ([]T, error) {
	query, err := BuildSelect(t.name, where)
	if err != nil {
		return nil, err
	}
	return queryRows(ctx, t.db, &t.cfg, t.schema, query)
}

// Get returns the first row matching where, or sql.ErrNoRows.
func (t *Table[T]) Get(ctx context.Context, where string) (T, error) {
	query, err := BuildSelect(t.name, where)
	if err != nil {
		var zero T
		return zero, err
	}
	return getRow(ctx, t.db, &t.cfg, t.schema, query)
}

// SelectPage returns page number page (1-based) of size rows matching where,
// ordered by orderBy. Both fragments are raw SQL and may be blank.
func (t *Table[T]) SelectPage(ctx context.Context, where, orderBy string, page, size int) ([]T, error) {
	query, err := BuildPagedSelect(t.name, where, orderBy, page, size)
	if err != nil {
		return nil, err
	}
	return queryRows(ctx, t.db, &t.cfg, t.schema, query)
}

// Stream is Select without materializing the result: records are read from
// the cursor as the caller advances the returned Stream.
func (t *Table[T]) Stream(ctx context.Context, where string) (*Stream[T], error) {
	query, err := BuildSelect(t.name, where)
	if err != nil {
		return nil, err
	}
	return streamRows(ctx, t.db, &t.cfg, t.schema, query)
}

func (t *Table[T]) exec(ctx context.Context, query string) error {
	_, err := Exec(ctx, t.db, &t.cfg, query)
	return err
}

func (t *Table[T]) literalRows(items []T) [][]string {
	rows := make([][]string, len(items))
	for i := range items {
		rows[i] = t.schema.Literals(&items[i])
	}
	return rows
}
