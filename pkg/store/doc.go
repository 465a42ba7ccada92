package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting the
// generic document operations below run either standalone or inside a
// caller-managed transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Get loads the document at (collection, id) and unmarshals it into T.
// Returns ErrNotFound if absent.
func Get[T any](ctx context.Context, q Querier, collection Collection, id string) (*T, error) {
	var raw []byte
	err := q.QueryRow(ctx, `SELECT doc FROM documents WHERE collection = $1 AND id = $2`, string(collection), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetForUpdate loads the document at (collection, id) under a row lock, for
// callers that will read-modify-write it inside the same transaction (C3's
// tag-proposal increment, C5's series attach, C6's category version bump).
func GetForUpdate[T any](ctx context.Context, tx pgx.Tx, collection Collection, id string) (*T, error) {
	var raw []byte
	err := tx.QueryRow(ctx, `SELECT doc FROM documents WHERE collection = $1 AND id = $2 FOR UPDATE`, string(collection), id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Put performs a full-document upsert, reporting whether the write created
// a new row (true) or replaced an existing one (false). The decision is
// made atomically by the write itself via Postgres's xmax trick rather than
// a preceding read, so a lost update between read and write cannot
// misclassify it — this is C4's saveEvent created/updated contract.
func Put[T any](ctx context.Context, q Querier, collection Collection, id string, doc *T) (created bool, err error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return false, err
	}
	var inserted bool
	err = q.QueryRow(ctx, `
		INSERT INTO documents (collection, id, doc, version, updated_at)
		VALUES ($1, $2, $3, 1, now())
		ON CONFLICT (collection, id) DO UPDATE
			SET doc = EXCLUDED.doc, version = documents.version + 1, updated_at = now()
		RETURNING (xmax = 0)
	`, string(collection), id, raw).Scan(&inserted)
	return inserted, err
}

// Touch shallow-merges patch into the stored document's top-level JSON
// object, used by C5/C6's merge-patch updates onto events and series.
func Touch(ctx context.Context, q Querier, collection Collection, id string, patch map[string]any) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, `
		UPDATE documents
		SET doc = doc || $3::jsonb, version = version + 1, updated_at = now()
		WHERE collection = $1 AND id = $2
	`, string(collection), id, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the document at (collection, id). Absence is not an error.
func Delete(ctx context.Context, q Querier, collection Collection, id string) error {
	_, err := q.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, string(collection), id)
	return err
}
