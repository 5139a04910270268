package xcrud

import (
	"context"
	"database/sql"
)

// Exec runs a statement that does not return rows (INSERT, UPDATE, DELETE,
// DDL) after passing it to cfg's logger.
//
// The statement is sent as is, with no arguments. On success it returns the
// driver's [sql.Result], which may support LastInsertId and RowsAffected
// depending on the database/driver. Driver errors are returned unchanged.
//
// Example:
//
//	// Given a *sql.DB (or *sql.Tx, *sql.Conn) in variable `db`:
//	res, err := xcrud.Exec(ctx, db, cfg, "DELETE FROM `sessions` WHERE expires < NOW()")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	n, _ := res.RowsAffected()
//	fmt.Println("rows:", n)
//
// A nil cfg behaves like the zero Config.
func Exec(ctx context.Context, e Execer, cfg *Config, query string) (sql.Result, error) {
	if err := cfg.logQuery(ctx, query); err != nil {
		return nil, err
	}
	return e.ExecContext(ctx, query)
}
