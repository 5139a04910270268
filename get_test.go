package xcrud

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
)

/* -------------------------------------------------------
   Special connector for rows.Next error simulation
--------------------------------------------------------*/

type errNextConnector struct{}

func (c *errNextConnector) Connect(context.Context) (driver.Conn, error) { return &errNextConn{}, nil }
func (c *errNextConnector) Driver() driver.Driver                        { return testDriver{} }

type errNextConn struct{}

func (c *errNextConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (c *errNextConn) Close() error                        { return nil }
func (c *errNextConn) Begin() (driver.Tx, error)           { return nil, driver.ErrSkip }
func (c *errNextConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return &errRows{}, nil
}

// errRows fails on first Next(); database/sql exposes it via rows.Err() after Next() returns false.
type errRows struct{}

func (e *errRows) Columns() []string { return []string{"a"} }
func (e *errRows) Close() error      { return nil }
func (e *errRows) Next(dest []driver.Value) error {
	return errors.New("driver next error")
}

func TestGet_SuccessStruct(t *testing.T) {
	type Row struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	db := newTestDB(t, &recorder{rows: rowsOf(
		[]string{`"ID"`, "`NAME`"},
		[]driver.Value{int64(7), []byte("alice")},
		[]driver.Value{int64(8), []byte("ignored")},
	)})

	got, err := Get[Row](context.Background(), db, nil, "ok")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != 7 || got.Name != "alice" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestGet_QueryError(t *testing.T) {
	wantErr := errors.New("boom")
	db := newTestDB(t, &recorder{rows: func(string) ([]string, [][]driver.Value, error) {
		return nil, nil, wantErr
	}})

	_, err := Get[Item](context.Background(), db, nil, "any")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestGet_NoRows_ReturnsErrNoRows(t *testing.T) {
	db := newTestDB(t, &recorder{rows: rowsOf([]string{"id"})})

	_, err := Get[Item](context.Background(), db, nil, "empty")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGet_NextError_SurfacedViaRowsErr(t *testing.T) {
	db := sql.OpenDB(&errNextConnector{})
	defer func() { _ = db.Close() }()

	_, err := Get[struct {
		A int `db:"a"`
	}](context.Background(), db, nil, "ignored")
	if err == nil || err.Error() != "driver next error" {
		t.Fatalf("expected driver next error, got %v", err)
	}
}

func TestGet_NotStruct(t *testing.T) {
	db := newTestDB(t, &recorder{})
	if _, err := Get[int64](context.Background(), db, nil, "q"); !errors.Is(err, ErrNotStruct) {
		t.Fatalf("want ErrNotStruct, got %v", err)
	}
}
