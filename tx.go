package xcrud

import (
	"context"
	"database/sql"
)

// RunTx runs fn inside a transaction started on b.
//
// If fn returns nil the transaction is committed and the Commit error, if
// any, is returned. If fn returns an error the transaction is rolled back and
// that same error is returned; a failing rollback never replaces it. A panic
// in fn rolls back before the panic continues. In every case the transaction
// is finished before RunTx returns.
//
// Table calls made inside fn must go through tx, e.g. users.With(tx):
//
//	err := xcrud.RunTx(ctx, db, nil, func(ctx context.Context, tx *sql.Tx) error {
//	    if err := users.With(tx).Delete(ctx, "id", 7); err != nil {
//	        return err
//	    }
//	    return audit.With(tx).Insert(ctx, Audit{Action: "delete user 7"})
//	})
func RunTx(ctx context.Context, b Beginner, opts *sql.TxOptions, fn func(ctx context.Context, tx *sql.Tx) error) error {
	tx, err := b.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
