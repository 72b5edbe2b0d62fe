package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeDB struct {
	DBExecutor
}

func TestGetExecutorPrefersTransaction(t *testing.T) {
	db := &fakeDB{}
	tx := &fakeTx{}

	assert.Same(t, db, GetExecutor(context.Background(), db))
	assert.False(t, IsInTransaction(context.Background()))

	ctx := WithTx(context.Background(), tx)
	assert.Same(t, tx, GetExecutor(ctx, db))
	assert.True(t, IsInTransaction(ctx))
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM bookings"))
	assert.Equal(t, "update", operation("  UPDATE bookings SET has_left = $1"))
	assert.Equal(t, "unknown", operation(""))
}

var _ TxExecutor = (*sql.Tx)(nil)
