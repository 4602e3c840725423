package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"locreg/pkg/platform/outbox"
	txcontext "locreg/pkg/platform/tx"
)

// maxBatch caps FetchUnprocessed regardless of the requested limit.
const maxBatch = 1000

const (
	insertEntrySQL = `INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	// SKIP LOCKED keeps concurrent relays that fetch inside a transaction
	// from claiming the same rows.
	pendingEntriesSQL = `SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at, processed_at
FROM outbox
WHERE processed_at IS NULL
ORDER BY created_at, id
LIMIT $1
FOR UPDATE SKIP LOCKED`

	markProcessedSQL = `UPDATE outbox SET processed_at = $2 WHERE id = $1 AND processed_at IS NULL`
	countPendingSQL  = `SELECT COUNT(*) FROM outbox WHERE processed_at IS NULL`
	pruneSQL         = `DELETE FROM outbox WHERE processed_at < $1`
)

// Store keeps outbox entries in the outbox table. Writes join the
// transaction carried by ctx so an event commits with its LOC change.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) conn(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Append(ctx context.Context, entry *outbox.Entry) error {
	if _, err := s.conn(ctx).ExecContext(ctx, insertEntrySQL,
		entry.ID, entry.AggregateType, entry.AggregateID, entry.EventType, entry.Payload, entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("append outbox entry %s: %w", entry.ID, err)
	}
	return nil
}

func (s *Store) FetchUnprocessed(ctx context.Context, limit int) ([]*outbox.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.conn(ctx).QueryContext(ctx, pendingEntriesSQL, min(limit, maxBatch))
	if err != nil {
		return nil, fmt.Errorf("query pending outbox: %w", err)
	}
	defer rows.Close()

	entries := make([]*outbox.Entry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read pending outbox: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (*outbox.Entry, error) {
	var (
		entry     outbox.Entry
		processed sql.NullTime
	)
	if err := rows.Scan(
		&entry.ID, &entry.AggregateType, &entry.AggregateID, &entry.EventType,
		&entry.Payload, &entry.CreatedAt, &processed,
	); err != nil {
		return nil, fmt.Errorf("scan outbox row: %w", err)
	}
	if processed.Valid {
		at := processed.Time
		entry.ProcessedAt = &at
	}
	return &entry, nil
}

func (s *Store) MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) error {
	n, err := affected(s.conn(ctx).ExecContext(ctx, markProcessedSQL, id, processedAt))
	if err != nil {
		return fmt.Errorf("mark outbox entry %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", outbox.ErrEntryNotPending, id)
	}
	return nil
}

func (s *Store) CountPending(ctx context.Context) (int64, error) {
	var pending int64
	if err := s.conn(ctx).QueryRowContext(ctx, countPendingSQL).Scan(&pending); err != nil {
		return 0, fmt.Errorf("count pending outbox: %w", err)
	}
	return pending, nil
}

// DeleteProcessedBefore relies on NULL comparing false, so pending rows
// never match.
func (s *Store) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	n, err := affected(s.conn(ctx).ExecContext(ctx, pruneSQL, before))
	if err != nil {
		return 0, fmt.Errorf("prune outbox: %w", err)
	}
	return n, nil
}

func affected(result sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
