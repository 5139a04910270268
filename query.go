package xcrud

import (
	"context"
	"database/sql"
)

// Query runs query after passing it to cfg's logger and maps every result
// row into a T.
//
// T must be a struct or implement [Mapped]. Columns bind to fields by name,
// ignoring case; `db:"name"` tags rename fields. NULLs and missing columns
// leave zero values and extra columns are ignored.
//
// Example:
//
//	type User struct {
//	    ID    int64  `db:"id"`
//	    Email string `db:"email"`
//	}
//
//	users, err := xcrud.Query[User](ctx, db, nil, "SELECT id, email FROM `users` ORDER BY id")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, u := range users {
//	    fmt.Println(u.ID, u.Email)
//	}
func Query[T any](ctx context.Context, q Querier, cfg *Config, query string) ([]T, error) {
	s, err := SchemaOf[T]()
	if err != nil {
		return nil, err
	}
	return queryRows(ctx, q, cfg, s, query)
}

func queryRows[T any](ctx context.Context, q Querier, cfg *Config, s *Schema[T], query string) ([]T, error) {
	rows, err := openRows(ctx, q, cfg, query)
	if err != nil {
		return nil, err
	}
	return MapRows(rows, s)
}

func streamRows[T any](ctx context.Context, q Querier, cfg *Config, s *Schema[T], query string) (*Stream[T], error) {
	rows, err := openRows(ctx, q, cfg, query)
	if err != nil {
		return nil, err
	}
	return newStream[T](rows, s), nil
}

// QueryRows runs query after passing it to cfg's logger and returns the raw
// rows, for result sets that have no record type. The caller must close them.
func QueryRows(ctx context.Context, q Querier, cfg *Config, query string) (*sql.Rows, error) {
	return openRows(ctx, q, cfg, query)
}

func openRows(ctx context.Context, q Querier, cfg *Config, query string) (*sql.Rows, error) {
	if err := cfg.logQuery(ctx, query); err != nil {
		return nil, err
	}
	return q.QueryContext(ctx, query)
}
