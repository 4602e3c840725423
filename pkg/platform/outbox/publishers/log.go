package publishers

import (
	"context"
	"log/slog"

	"locreg/pkg/platform/outbox"
)

// Log writes each entry as a structured log line. It is the default relay
// when no broker is configured.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Publish(ctx context.Context, entry *outbox.Entry) error {
	l.logger.InfoContext(ctx, "loc event",
		"outbox_id", entry.ID,
		"aggregate_type", entry.AggregateType,
		"aggregate_id", entry.AggregateID,
		"event_type", entry.EventType,
		"payload", string(entry.Payload),
	)
	return nil
}
