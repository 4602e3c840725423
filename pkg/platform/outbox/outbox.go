// Package outbox is the transactional outbox: LOC events are appended with
// the state change that caused them, and a worker relays them afterwards.
package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// AggregateLoc tags entries emitted by LOC operations.
const AggregateLoc = "loc"

// ErrEntryNotPending is returned by MarkProcessed for an unknown entry or
// one already relayed.
var ErrEntryNotPending = errors.New("outbox entry not found or already processed")

// Entry is one event awaiting relay. Payload is the JSON envelope.
type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

func (e *Entry) IsPending() bool { return e.ProcessedAt == nil }

// NewEntry stamps a new entry with a time-ordered UUIDv7.
func NewEntry(aggregateType, aggregateID, eventType string, payload []byte) *Entry {
	entryID, err := uuid.NewV7()
	if err != nil {
		entryID = uuid.New()
	}
	return &Entry{
		ID:            entryID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
}

// Store persists entries. Append joins the caller's transaction when the
// context carries one.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	// FetchUnprocessed returns at most limit pending entries, oldest first.
	FetchUnprocessed(ctx context.Context, limit int) ([]*Entry, error)
	MarkProcessed(ctx context.Context, id uuid.UUID, processedAt time.Time) error
	CountPending(ctx context.Context) (int64, error)
	// DeleteProcessedBefore prunes relayed entries and reports how many.
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
