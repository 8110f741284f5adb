package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andrepsousa/AdegaDigital/internal/port"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, letting the
// repositories run against either.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type store struct {
	pool *pgxpool.Pool // nil when bound to an existing transaction
	tx   pgx.Tx        // nil when bound to a pool

	products port.ProductRepository
	orders   port.OrderRepository
}

// NewStore builds a store over a connection pool. WithinTx opens a real
// transaction per call.
func NewStore(pool *pgxpool.Pool) port.Store {
	return &store{
		pool:     pool,
		products: newProductRepository(pool),
		orders:   newOrderRepository(pool),
	}
}

// NewStoreWithTx builds a store bound to an already-open transaction, e.g.
// one begun by a surrounding web request. WithinTx then opens a savepoint
// instead of a new transaction.
func NewStoreWithTx(tx pgx.Tx) port.Store {
	return &store{
		tx:       tx,
		products: newProductRepository(tx),
		orders:   newOrderRepository(tx),
	}
}

func (s *store) Products() port.ProductRepository { return s.products }
func (s *store) Orders() port.OrderRepository     { return s.orders }

func (s *store) WithinTx(ctx context.Context, fn func(s port.Store) error) (txErr error) {
	var (
		tx  pgx.Tx
		err error
	)

	// pgx.Tx.Begin issues a SAVEPOINT when called on an open transaction.
	if s.tx != nil {
		tx, err = s.tx.Begin(ctx)
	} else {
		tx, err = s.pool.Begin(ctx)
	}
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	// Ensure proper rollback handling
	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	if err := fn(NewStoreWithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}
