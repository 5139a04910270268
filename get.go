package xcrud

import (
	"context"
	"database/sql"
)

// Get runs query and maps its first row into a T.
//
// It returns [sql.ErrNoRows] if the query yields no rows and does not enforce
// "exactly one row" beyond the first; if more rows exist, they are ignored.
// Add LIMIT 1 (or an equivalent WHERE clause) when you require at-most-one
// row.
//
// Example:
//
//	u, err := xcrud.Get[User](ctx, db, cfg, "SELECT * FROM `users` WHERE id = 42")
//	if err != nil {
//	    if errors.Is(err, sql.ErrNoRows) {
//	        // handle not found
//	    } else {
//	        // handle other errors
//	    }
//	}
func Get[T any](ctx context.Context, q Querier, cfg *Config, query string) (T, error) {
	s, err := SchemaOf[T]()
	if err != nil {
		var zero T
		return zero, err
	}
	return getRow(ctx, q, cfg, s, query)
}

func getRow[T any](ctx context.Context, q Querier, cfg *Config, s *Schema[T], query string) (out T, err error) {
	st, err := streamRows(ctx, q, cfg, s, query)
	if err != nil {
		return out, err
	}
	// Ensure Close error is propagated if no earlier error occurred.
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if !st.Next() {
		if ne := st.Err(); ne != nil {
			return out, ne
		}
		return out, sql.ErrNoRows
	}
	return st.Record(), nil
}
