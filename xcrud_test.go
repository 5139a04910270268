package xcrud

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
	"testing"
)

// recorder is the in-memory backend of the test driver. It records every
// statement that reaches the driver and answers queries through rows.
type recorder struct {
	mu        sync.Mutex
	stmts     []string
	rows      func(query string) (cols []string, data [][]driver.Value, err error)
	execErr   error
	closeErr  error
	begins    int
	commits   int
	rollbacks int
}

func (r *recorder) record(q string) {
	r.mu.Lock()
	r.stmts = append(r.stmts, q)
	r.mu.Unlock()
}

func (r *recorder) statements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.stmts...)
}

type testConnector struct{ r *recorder }

func (c *testConnector) Connect(context.Context) (driver.Conn, error) { return &testConn{r: c.r}, nil }
func (c *testConnector) Driver() driver.Driver                        { return testDriver{} }

type testDriver struct{}

func (testDriver) Open(name string) (driver.Conn, error) {
	return nil, errors.New("testDriver.Open should not be called; use sql.OpenDB with connector")
}

type testConn struct{ r *recorder }

func (c *testConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (c *testConn) Close() error                        { return nil }

func (c *testConn) Begin() (driver.Tx, error) {
	c.r.mu.Lock()
	c.r.begins++
	c.r.mu.Unlock()
	return &testTx{r: c.r}, nil
}

func (c *testConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.r.record(query)
	if c.r.rows == nil {
		return &testRows{cols: []string{"id"}, closeErr: c.r.closeErr}, nil
	}
	cols, data, err := c.r.rows(query)
	if err != nil {
		return nil, err
	}
	return &testRows{cols: cols, data: data, closeErr: c.r.closeErr}, nil
}

func (c *testConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.r.record(query)
	if c.r.execErr != nil {
		return nil, c.r.execErr
	}
	return testResult{rows: 1}, nil
}

type testTx struct{ r *recorder }

func (tx *testTx) Commit() error {
	tx.r.mu.Lock()
	tx.r.commits++
	tx.r.mu.Unlock()
	return nil
}

func (tx *testTx) Rollback() error {
	tx.r.mu.Lock()
	tx.r.rollbacks++
	tx.r.mu.Unlock()
	return nil
}

type testRows struct {
	cols     []string
	data     [][]driver.Value
	i        int
	closeErr error
}

func (r *testRows) Columns() []string { return append([]string(nil), r.cols...) }
func (r *testRows) Close() error      { return r.closeErr }
func (r *testRows) Next(dest []driver.Value) error {
	if r.i >= len(r.data) {
		return io.EOF
	}
	row := r.data[r.i]
	for i := range dest {
		if i < len(row) {
			dest[i] = row[i]
		} else {
			dest[i] = nil
		}
	}
	r.i++
	return nil
}

// Result implementation for tests.
type testResult struct {
	lastID int64
	rows   int64
}

func (r testResult) LastInsertId() (int64, error) { return r.lastID, nil }
func (r testResult) RowsAffected() (int64, error) { return r.rows, nil }

// newTestDB creates a *sql.DB backed by the in-memory test driver.
func newTestDB(t *testing.T, r *recorder) *sql.DB {
	t.Helper()
	db := sql.OpenDB(&testConnector{r: r})
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// rowsOf answers every query with the same columns and rows.
func rowsOf(cols []string, data ...[]driver.Value) func(string) ([]string, [][]driver.Value, error) {
	return func(string) ([]string, [][]driver.Value, error) {
		return cols, data, nil
	}
}
