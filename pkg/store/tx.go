package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// serializationFailure is Postgres SQLSTATE 40001, raised when two
// concurrent transactions conflict under SERIALIZABLE or REPEATABLE READ.
const serializationFailure = "40001"

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error. A serialization failure is retried exactly once; if the
// retry also fails, the error is wrapped in a TransactionError so callers
// can map it to an UpstreamError rather than retrying further themselves.
func WithTx(ctx context.Context, db *DB, fn func(tx pgx.Tx) error) error {
	err := runOnce(ctx, db, fn)
	if err == nil {
		return nil
	}
	if !isSerializationFailure(err) {
		return err
	}
	err = runOnce(ctx, db, fn)
	if err == nil {
		return nil
	}
	return &TransactionError{Err: err}
}

func runOnce(ctx context.Context, db *DB, fn func(tx pgx.Tx) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == serializationFailure
	}
	return false
}
