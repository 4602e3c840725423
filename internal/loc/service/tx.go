package service

import (
	"context"
	"sort"
	"time"

	locmetrics "locreg/internal/loc/metrics"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
	platformsync "locreg/pkg/platform/sync"
	txcontext "locreg/pkg/platform/tx"
)

// TxRunner provides the atomic boundary for LOC operations. keys name every
// LOC the operation reads or writes; operations on disjoint keys may run in
// parallel, operations sharing a key are serialized.
// If fn fails, no write made through ctx may remain visible.
type TxRunner interface {
	RunInTx(ctx context.Context, keys []string, fn func(ctx context.Context) error) error
}

const defaultTxTimeout = 5 * time.Second

// shardedTx serializes in-memory operations per LOC using striped locks.
// Nested calls reuse the outer locks and must name a subset of its keys.
type shardedTx struct {
	locks   *platformsync.Striped
	timeout time.Duration
	metrics *locmetrics.Metrics
}

func NewShardedTx(m *locmetrics.Metrics) TxRunner {
	return &shardedTx{
		locks:   platformsync.NewStriped(0),
		timeout: defaultTxTimeout,
		metrics: m,
	}
}

func (t *shardedTx) RunInTx(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if txcontext.Active(ctx) {
		return fn(ctx)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	unlock := t.locks.Acquire(keys...)
	defer unlock()
	if t.metrics != nil {
		t.metrics.ObserveLockWait(start)
	}

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(txcontext.WithActive(ctx))
}

// lockKeysFor returns the sorted, de-duplicated lock keys for the LOCs.
func lockKeysFor(locIDs ...id.LocID) []string {
	seen := make(map[string]struct{}, len(locIDs))
	keys := make([]string, 0, len(locIDs))
	for _, locID := range locIDs {
		k := "loc:" + locID.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
