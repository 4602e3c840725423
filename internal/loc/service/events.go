package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"locreg/internal/loc/models"
	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
	"locreg/pkg/platform/outbox"
	"locreg/pkg/requestcontext"
)

// EventSink records events within the caller's transaction. A failing
// Append aborts the operation, so an event exists iff its mutation does.
type EventSink interface {
	Append(ctx context.Context, event models.RecordedEvent) error
}

// emit writes the audit log line and appends the event to the sink.
func (s *Service) emit(ctx context.Context, actor id.AccountID, event models.Event) error {
	occurredAt, ok := requestcontext.Time(ctx)
	if !ok {
		occurredAt = s.now()
	}
	recorded := models.RecordedEvent{
		Event:      event,
		Actor:      actor,
		RequestID:  requestcontext.RequestID(ctx),
		OccurredAt: occurredAt,
	}
	if s.events != nil {
		if err := s.events.Append(ctx, recorded); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record event")
		}
	}
	s.logAudit(ctx, string(event.EventType()),
		"loc_id", event.AggregateID(),
		"actor", actor,
	)
	return nil
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

// envelope is the JSON payload stored in the outbox.
type envelope struct {
	Type       models.EventType `json:"type"`
	LocID      id.LocID         `json:"loc_id"`
	Actor      id.AccountID     `json:"actor"`
	RequestID  string           `json:"request_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
	Data       models.Event     `json:"data"`
}

// OutboxSink appends events to the transactional outbox. With a Postgres
// outbox store the entry joins the transaction carried by ctx.
type OutboxSink struct {
	store outbox.Store
}

func NewOutboxSink(store outbox.Store) *OutboxSink {
	return &OutboxSink{store: store}
}

func (o *OutboxSink) Append(ctx context.Context, event models.RecordedEvent) error {
	payload, err := json.Marshal(envelope{
		Type:       event.Event.EventType(),
		LocID:      event.Event.AggregateID(),
		Actor:      event.Actor,
		RequestID:  event.RequestID,
		OccurredAt: event.OccurredAt,
		Data:       event.Event,
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Event.EventType(), err)
	}
	entry := outbox.NewEntry(outbox.AggregateLoc, event.Event.AggregateID().String(), string(event.Event.EventType()), payload)
	return o.store.Append(ctx, entry)
}
