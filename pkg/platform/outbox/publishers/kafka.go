// Package publishers delivers outbox entries to Kafka, NATS JetStream or the
// log, and fans out to several of them.
package publishers

import (
	"context"

	"locreg/internal/platform/kafka/producer"
	"locreg/pkg/platform/outbox"
)

// MessageProducer is the subset of the Kafka producer the publisher needs.
type MessageProducer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// Kafka publishes entries keyed by aggregate id so every event of one LOC
// lands on the same partition in order.
type Kafka struct {
	producer MessageProducer
	topic    string
}

func NewKafka(p MessageProducer, topic string) *Kafka {
	return &Kafka{producer: p, topic: topic}
}

func (k *Kafka) Publish(ctx context.Context, entry *outbox.Entry) error {
	return k.producer.Produce(ctx, &producer.Message{
		Topic:   k.topic,
		Key:     []byte(entry.AggregateID),
		Value:   entry.Payload,
		Headers: headers(entry),
	})
}

func headers(entry *outbox.Entry) map[string]string {
	return map[string]string{
		"outbox_id":      entry.ID.String(),
		"aggregate_type": entry.AggregateType,
		"aggregate_id":   entry.AggregateID,
		"event_type":     entry.EventType,
	}
}
