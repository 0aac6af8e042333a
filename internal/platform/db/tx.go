package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

// DBTxKey is the context key under which an open transaction travels.
// Repositories resolve their connection tx-first so that every statement
// issued inside a Transactor callback joins the same transaction.
const DBTxKey contextKey = "db_tx"

// TxFromContext retrieves the transaction from context, or nil when the
// caller is not running inside one.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(DBTxKey).(pgx.Tx)
	return tx
}

// Transactor runs a function inside a single atomic transaction. Every
// multi-entity operation in the admission/billing core goes through this
// so that partial application — a bed flipped without its admission — is
// impossible.
type Transactor interface {
	// InTx begins a transaction, injects it into the context handed to fn,
	// and commits when fn returns nil. Any error from fn rolls everything
	// back and is returned unchanged.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type pgTransactor struct {
	pool *pgxpool.Pool
}

// NewPGTransactor returns a Transactor backed by the connection pool.
func NewPGTransactor(pool *pgxpool.Pool) Transactor {
	return &pgTransactor{pool: pool}
}

func (t *pgTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// Joining an enclosing transaction keeps nested service calls atomic
	// with their caller.
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, DBTxKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NoopTransactor satisfies Transactor without a database. In-memory
// repositories used in tests serialize themselves, so the callback runs
// directly on the given context.
type NoopTransactor struct{}

func (NoopTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
