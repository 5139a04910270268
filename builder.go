package xcrud

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// The Build* functions compose MySQL statement text from a table name,
// column names and already formatted literals (see FormatValue). They never
// touch a database. Identifiers are wrapped with QuoteIdent; predicate and
// order fragments are inserted verbatim, and a blank fragment means "absent".
// The result carries no arguments: every value is inlined.

// BuildInsert returns
//
//	INSERT INTO `table` (`c1`,`c2`) VALUES (v1,v2),(v1,v2)
//
// with one value tuple per row. Every row must have len(cols) literals.
func BuildInsert(table string, cols []string, rows [][]string) (string, error) {
	b, err := insertBuilder(table, cols, rows)
	if err != nil {
		return "", err
	}
	return toSQL(b)
}

// BuildUpsert returns a batch insert followed by
//
//	ON DUPLICATE KEY UPDATE `c2`=VALUES(`c2`),...
//
// listing every column except key (case-insensitive).
func BuildUpsert(table string, cols []string, rows [][]string, key string) (string, error) {
	b, err := insertBuilder(table, cols, rows)
	if err != nil {
		return "", err
	}
	sets := make([]string, 0, len(cols))
	for _, c := range cols {
		if strings.EqualFold(c, key) {
			continue
		}
		qc := QuoteIdent(c)
		sets = append(sets, qc+"=VALUES("+qc+")")
	}
	if len(sets) == 0 {
		return "", fmt.Errorf("%w: upsert on %s updates nothing besides key %q", ErrNoColumns, table, key)
	}
	return toSQL(b.Suffix("ON DUPLICATE KEY UPDATE " + strings.Join(sets, ",")))
}

// BuildSelect returns SELECT * FROM `table`, plus WHERE where when where is
// not blank.
func BuildSelect(table, where string) (string, error) {
	return toSQL(selectBuilder(table, where))
}

// BuildPagedSelect returns BuildSelect's statement followed by an optional
// ORDER BY, then LIMIT size OFFSET (page-1)*size. Pages are 1-based.
func BuildPagedSelect(table, where, orderBy string, page, size int) (string, error) {
	off, err := Offset(page, size)
	if err != nil {
		return "", err
	}
	b := selectBuilder(table, where)
	if !blank(orderBy) {
		b = b.OrderBy(orderBy)
	}
	return toSQL(b.Limit(uint64(size)).Offset(uint64(off)))
}

// Offset maps a 1-based page number and page size to a row offset.
func Offset(page, size int) (int, error) {
	if page < 1 || size < 1 {
		return 0, fmt.Errorf("%w: page=%d size=%d", ErrInvalidPage, page, size)
	}
	return (page - 1) * size, nil
}

// BuildUpdate returns
//
//	UPDATE `table` SET `c1` = v1, `c2` = v2 WHERE `key` = keyLit
//
// vals[i] is the literal of cols[i]. The key column is left out of the SET
// list (case-insensitive); if nothing else remains ErrNoColumns is returned.
func BuildUpdate(table string, cols, vals []string, key, keyLit string) (string, error) {
	if len(cols) != len(vals) {
		return "", fmt.Errorf("xcrud: %d values for %d columns", len(vals), len(cols))
	}
	b := sq.Update(QuoteIdent(table))
	n := 0
	for i, c := range cols {
		if strings.EqualFold(c, key) {
			continue
		}
		b = b.Set(QuoteIdent(c), sq.Expr(vals[i]))
		n++
	}
	if n == 0 {
		return "", fmt.Errorf("%w: update on %s sets nothing besides key %q", ErrNoColumns, table, key)
	}
	return toSQL(b.Where(QuoteIdent(key) + " = " + keyLit))
}

// BuildDelete returns DELETE FROM `table` WHERE `key` = keyLit.
func BuildDelete(table, key, keyLit string) (string, error) {
	return toSQL(sq.Delete(QuoteIdent(table)).Where(QuoteIdent(key) + " = " + keyLit))
}

func insertBuilder(table string, cols []string, rows [][]string) (sq.InsertBuilder, error) {
	if len(rows) == 0 {
		return sq.InsertBuilder{}, ErrEmptyBatch
	}
	if len(cols) == 0 {
		return sq.InsertBuilder{}, fmt.Errorf("%w: insert into %s", ErrNoColumns, table)
	}
	qcols := make([]string, len(cols))
	for i, c := range cols {
		qcols[i] = QuoteIdent(c)
	}
	b := sq.Insert(QuoteIdent(table)).Columns(qcols...)
	for i, row := range rows {
		if len(row) != len(cols) {
			return sq.InsertBuilder{}, fmt.Errorf("xcrud: row %d has %d values for %d columns", i, len(row), len(cols))
		}
		b = b.Values(literals(row)...)
	}
	return b, nil
}

func selectBuilder(table, where string) sq.SelectBuilder {
	b := sq.Select("*").From(QuoteIdent(table))
	if !blank(where) {
		b = b.Where(where)
	}
	return b
}

// literals wraps formatted values so squirrel inlines them instead of
// emitting placeholders.
func literals(row []string) []any {
	out := make([]any, len(row))
	for i, lit := range row {
		out[i] = sq.Expr(lit)
	}
	return out
}

func toSQL(s sq.Sqlizer) (string, error) {
	query, _, err := s.ToSql()
	return query, err
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
