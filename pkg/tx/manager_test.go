package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack int
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if f.committed {
		return pgx.ErrTxClosed
	}
	f.rolledBack++
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	opts  pgx.TxOptions
	calls int
	err   error
}

func (f *fakeBeginner) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	f.calls++
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.tx, nil
}

func TestDo_Commit(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	m := NewTxManager(db, ReadOnlySnapshot)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		got, ok := FromContext(ctx)
		require.True(t, ok)
		assert.Same(t, db.tx, got)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, db.tx.committed)
	assert.Equal(t, pgx.ReadOnly, db.opts.AccessMode)
	assert.Equal(t, pgx.RepeatableRead, db.opts.IsoLevel)
}

func TestDo_RollbackOnError(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	m := NewTxManager(db, pgx.TxOptions{})
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(context.Context) error { return boom })

	require.ErrorIs(t, err, boom)
	assert.False(t, db.tx.committed)
	assert.GreaterOrEqual(t, db.tx.rolledBack, 1)
}

func TestDo_BeginError(t *testing.T) {
	db := &fakeBeginner{err: errors.New("connection refused")}
	m := NewTxManager(db, pgx.TxOptions{})

	called := false
	err := m.Do(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.False(t, called)
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	m := NewTxManager(db, pgx.TxOptions{})

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.Do(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, db.calls)
}

func TestQuerierFrom(t *testing.T) {
	fallback := &fakeTx{}
	assert.Same(t, fallback, QuerierFrom(context.Background(), fallback))

	inTx := &fakeTx{}
	ctx := context.WithValue(context.Background(), txKey, pgx.Tx(inTx))
	assert.Same(t, inTx, QuerierFrom(ctx, fallback))
}
