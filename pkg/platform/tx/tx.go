// Package tx carries transaction state through context so stores can join
// the transaction opened by a runner without widening their signatures.
package tx

import (
	"context"
	"database/sql"
)

type (
	sqlTxKey  struct{}
	activeKey struct{}
)

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(WithActive(ctx), sqlTxKey{}, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(sqlTxKey{}).(*sql.Tx)
	return tx, ok
}

// WithActive marks the context as running inside a transaction.
// Runners without a SQL handle (in-memory locking) use it for reentrancy.
func WithActive(ctx context.Context) context.Context {
	return context.WithValue(ctx, activeKey{}, true)
}

// Active reports whether a runner already holds a transaction for ctx.
func Active(ctx context.Context) bool {
	active, _ := ctx.Value(activeKey{}).(bool)
	return active
}
