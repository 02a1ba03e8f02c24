package storage

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/catalog-manager/pkg/interfaces"
	"github.com/athebyme/catalog-manager/pkg/tx"
)

var _ interfaces.SeedSourcePort = (*PostgresSource)(nil)

func TestNewPostgresSourceWithPool_NilPool(t *testing.T) {
	_, err := NewPostgresSourceWithPool(context.Background(), nil)
	assert.EqualError(t, err, "pool is nil")
}

// Требует доступную базу: CATALOG_TEST_POSTGRES_DSN=postgres://...
func TestPostgresSource_LoadRawProducts(t *testing.T) {
	dsn := os.Getenv("CATALOG_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CATALOG_TEST_POSTGRES_DSN is not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	// Временная таблица видна только в своем соединении
	conn, err := pool.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	_, err = conn.Exec(ctx, `
		CREATE TEMP TABLE catalog_products (
			position     SERIAL,
			product_id   TEXT NOT NULL,
			item         TEXT NOT NULL,
			price        TEXT NOT NULL,
			cat_id       TEXT NOT NULL,
			uom          TEXT NOT NULL,
			product_size TEXT,
			plu_upc      TEXT
		)`)
	require.NoError(t, err)
	_, err = conn.Exec(ctx, `
		INSERT INTO catalog_products (product_id, item, price, cat_id, uom, product_size, plu_upc) VALUES
			('159', 'LOW-SODIUM HAM', ' $5.15 ', '1', 'LB', NULL, NULL),
			('102', 'DELUXE COOKED HAM', ' $5.15 ', '1', 'LB', '', '4011')`)
	require.NoError(t, err)

	source := &PostgresSource{db: conn, txm: tx.NewTxManager(conn, tx.ReadOnlySnapshot), query: defaultSeedQuery}
	raw, err := source.LoadRawProducts(ctx)
	require.NoError(t, err)

	require.Len(t, raw, 2)
	assert.Equal(t, "159", string(raw[0].ProductID))
	assert.Empty(t, string(raw[0].PluUpc))
	assert.Equal(t, "4011", string(raw[1].PluUpc))
}

func TestPostgresSource_ReadOnlyTransaction(t *testing.T) {
	dsn := os.Getenv("CATALOG_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CATALOG_TEST_POSTGRES_DSN is not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	source := &PostgresSource{
		db:    pool,
		txm:   tx.NewTxManager(pool, tx.ReadOnlySnapshot),
		query: `CREATE TABLE catalog_products_forbidden (id INT)`,
	}
	_, err = source.LoadRawProducts(ctx)
	require.Error(t, err)
}
