package publishers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"locreg/pkg/platform/outbox"
)

// JetStreamPublisher is the subset of nats.JetStreamContext used here.
type JetStreamPublisher interface {
	PublishMsg(m *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// NATS publishes entries on "<subject>.<event_type>" with the outbox id as
// the JetStream message id, so redelivered entries are deduplicated by the
// stream.
type NATS struct {
	js      JetStreamPublisher
	subject string
}

func NewNATS(js JetStreamPublisher, subject string) *NATS {
	return &NATS{js: js, subject: subject}
}

func (n *NATS) Publish(ctx context.Context, entry *outbox.Entry) error {
	msg := nats.NewMsg(n.subject + "." + entry.EventType)
	msg.Data = entry.Payload
	for k, v := range headers(entry) {
		msg.Header.Set(k, v)
	}
	if _, err := n.js.PublishMsg(msg, nats.Context(ctx), nats.MsgId(entry.ID.String())); err != nil {
		return fmt.Errorf("publish to jetstream: %w", err)
	}
	return nil
}

// ConnectJetStream dials url and makes sure a stream covering subject.>
// exists. The returned close func drains the connection.
func ConnectJetStream(url, stream, subject string) (nats.JetStreamContext, func(), error) {
	nc, err := nats.Connect(url, nats.Name("locreg-outbox"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats: %w", err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("jetstream context: %w", err)
	}

	_, err = js.StreamInfo(stream)
	if errors.Is(err, nats.ErrStreamNotFound) {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:       stream,
			Subjects:   []string{subject + ".>"},
			Retention:  nats.LimitsPolicy,
			Storage:    nats.FileStorage,
			Duplicates: 2 * time.Minute,
		})
	}
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("ensure stream %s: %w", stream, err)
	}

	return js, func() { _ = nc.Drain() }, nil
}
