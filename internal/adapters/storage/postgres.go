package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/athebyme/catalog-manager/internal/domain/models"
	"github.com/athebyme/catalog-manager/pkg/tx"
)

// defaultSeedQuery читает исходную коллекцию в порядке хранения
// NULL в необязательных колонках превращается в пустую строку
const defaultSeedQuery = `
	SELECT product_id, item, price, cat_id, uom,
	       COALESCE(product_size, ''), COALESCE(plu_upc, '')
	FROM catalog_products
	ORDER BY position`

// PostgresSource источник исходной коллекции в PostgreSQL
// Только читает: изменения каталога в базу не записываются
// Коллекция читается в одной read-only транзакции
type PostgresSource struct {
	pool  *pgxpool.Pool
	db    tx.Querier
	txm   tx.TxManager
	query string
}

// NewPostgresSource подключается к PostgreSQL и проверяет соединение
func NewPostgresSource(ctx context.Context, cfg Config) (*PostgresSource, error) {
	poolConfig, err := cfg.PoolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	source, err := NewPostgresSourceWithPool(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return source, nil
}

// NewPostgresSourceWithPool использует готовый пул соединений
func NewPostgresSourceWithPool(ctx context.Context, pool *pgxpool.Pool) (*PostgresSource, error) {
	if pool == nil {
		return nil, errors.New("pool is nil")
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &PostgresSource{
		pool:  pool,
		db:    pool,
		txm:   tx.NewTxManager(pool, tx.ReadOnlySnapshot),
		query: defaultSeedQuery,
	}, nil
}

// LoadRawProducts реализация SeedSourcePort
func (s *PostgresSource) LoadRawProducts(ctx context.Context) ([]models.RawProduct, error) {
	var products []models.RawProduct
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		var err error
		products, err = s.loadRows(ctx, tx.QuerierFrom(ctx, s.db))
		return err
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *PostgresSource) loadRows(ctx context.Context, q tx.Querier) ([]models.RawProduct, error) {
	rows, err := q.Query(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog products: %w", err)
	}
	defer rows.Close()

	var products []models.RawProduct
	for rows.Next() {
		var productID, item, price, catID, uom, productSize, pluUpc string
		if err := rows.Scan(&productID, &item, &price, &catID, &uom, &productSize, &pluUpc); err != nil {
			return nil, fmt.Errorf("failed to scan catalog product: %w", err)
		}

		products = append(products, models.RawProduct{
			ProductID:   models.FlexString(productID),
			Item:        models.FlexString(item),
			Price:       models.FlexString(price),
			CatID:       models.FlexString(catID),
			UOM:         models.FlexString(uom),
			ProductSize: models.FlexString(productSize),
			PluUpc:      models.FlexString(pluUpc),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog products: %w", err)
	}

	return products, nil
}

// Close закрывает пул соединений
func (s *PostgresSource) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
