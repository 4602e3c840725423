package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "locreg/pkg/domain-errors"
	txcontext "locreg/pkg/platform/tx"
)

const (
	defaultLocTxTimeout = 5 * time.Second
	advisoryLockSQL     = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
)

// locPostgresTx is the Postgres transaction runner for LOC operations.
// Keys become transaction-scoped advisory locks taken in the order given;
// the service sorts them.
type locPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newLocPostgresTx(db *sql.DB, timeout time.Duration) *locPostgresTx {
	if timeout <= 0 {
		timeout = defaultLocTxTimeout
	}
	return &locPostgresTx{db: db, timeout: timeout}
}

func (t *locPostgresTx) RunInTx(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	if ctx.Err() != nil {
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if txcontext.Active(ctx) {
		return fn(ctx)
	}

	ctx, cancel := t.bound(ctx)
	defer cancel()

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to begin transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback() //nolint:errcheck // the fn or commit error is what callers need
		}
	}()

	if err := lockAll(ctx, tx, keys); err != nil {
		return err
	}
	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit transaction")
	}
	committed = true
	return nil
}

// bound applies the runner timeout unless the caller already set a deadline.
func (t *locPostgresTx) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, t.timeout)
}

func lockAll(ctx context.Context, tx *sql.Tx, keys []string) error {
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, advisoryLockSQL, key); err != nil {
			if ctx.Err() != nil {
				return dErrors.Wrap(err, dErrors.CodeTimeout, "timed out waiting for LOC lock")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock LOC")
		}
	}
	return nil
}
