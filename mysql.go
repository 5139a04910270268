package xcrud

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// erDupEntry is MySQL's ER_DUP_ENTRY.
const erDupEntry = 1062

// MySQLConfig parses a go-sql-driver/mysql DSN and turns on parseTime, so
// DATETIME and TIMESTAMP columns arrive as time.Time. The location defaults
// to UTC unless the DSN sets loc.
func MySQLConfig(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ParseTime = true
	return cfg, nil
}

// OpenMySQL opens a MySQL handle for dsn (see MySQLConfig) and verifies it
// with a ping.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := MySQLConfig(dsn)
	if err != nil {
		return nil, err
	}
	conn, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(conn)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// IsDuplicateKey reports whether err is a MySQL duplicate-key violation,
// e.g. an Insert hitting an existing primary key.
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == erDupEntry
}
