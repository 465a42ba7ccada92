package store

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: "40001"}))
	assert.False(t, isSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isSerializationFailure(errors.New("boom")))
	assert.False(t, isSerializationFailure(nil))
}

func TestIsSerializationFailureWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), &pgconn.PgError{Code: "40001"})
	assert.True(t, isSerializationFailure(wrapped))
}

func TestTransactionErrorUnwrapsAndFormats(t *testing.T) {
	inner := errors.New("deadlock detected")
	txErr := &TransactionError{Err: inner}

	assert.Contains(t, txErr.Error(), "deadlock detected")
	require.ErrorIs(t, txErr, inner)
}
