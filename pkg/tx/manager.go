package tx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// txKeyType ключ транзакции в контексте
type txKeyType struct{}

var txKey = txKeyType{}

// ReadOnlySnapshot согласованное чтение: все запросы видят один снимок базы
var ReadOnlySnapshot = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// Beginner открывает транзакции; реализуется *pgxpool.Pool, *pgxpool.Conn и *pgx.Conn
type Beginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// Querier выполняет запросы; реализуется пулом, соединением и pgx.Tx
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TxManager управляет жизненным циклом транзакций
type TxManager interface {
	// Do выполняет fn внутри транзакции
	// Ошибка fn откатывает транзакцию, успешное завершение фиксирует ее
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type pgxTxManager struct {
	db   Beginner
	opts pgx.TxOptions
}

// NewTxManager создает менеджер транзакций с параметрами opts
func NewTxManager(db Beginner, opts pgx.TxOptions) TxManager {
	return &pgxTxManager{db: db, opts: opts}
}

// Do реализует TxManager
// Вложенный вызов переиспользует транзакцию из контекста
func (m *pgxTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := FromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, m.opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback после Commit ничего не делает; нужен на случай паники в fn
	defer func() {
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rollbackErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FromContext извлекает транзакцию из контекста
func FromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// QuerierFrom возвращает транзакцию из контекста или fallback, если ее нет
func QuerierFrom(ctx context.Context, fallback Querier) Querier {
	if tx, ok := FromContext(ctx); ok {
		return tx
	}
	return fallback
}
