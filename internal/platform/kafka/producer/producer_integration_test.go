//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"locreg/internal/platform/kafka/producer"
	"locreg/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())

	p, err := producer.New(producer.Config{
		Brokers:         s.kafka.Brokers,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}, nil)
	s.Require().NoError(err)
	s.producer = p
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		s.NoError(s.producer.Close())
	}
}

func (s *ProducerIntegrationSuite) TestEnsureTopicIsRepeatable() {
	ctx := context.Background()
	s.Require().NoError(s.producer.EnsureTopic(ctx, "locreg.test.ensure", 3, 1))
	s.Require().NoError(s.producer.EnsureTopic(ctx, "locreg.test.ensure", 3, 1))
}

func (s *ProducerIntegrationSuite) TestProduceKeepsKeyAndHeaders() {
	ctx := context.Background()
	topic := "locreg.test.produce"
	s.Require().NoError(s.producer.EnsureTopic(ctx, topic, 1, 1))

	s.Require().NoError(s.producer.Produce(ctx, &producer.Message{
		Topic: topic,
		Key:   []byte("loc-key"),
		Value: []byte(`{"type":"loc_created"}`),
		Headers: map[string]string{
			"aggregate_type": "loc",
			"event_type":     "loc_created",
		},
	}))

	consumer, err := s.kafka.NewConsumer("locreg-produce-test", topic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.kafka.WaitForMessage(ctx, consumer, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "loc-key"
	})
	s.Require().NotNil(record)
	s.JSONEq(`{"type":"loc_created"}`, string(record.Value))
	s.Equal([]kgo.RecordHeader{
		{Key: "aggregate_type", Value: []byte("loc")},
		{Key: "event_type", Value: []byte("loc_created")},
	}, record.Headers)
}

func (s *ProducerIntegrationSuite) TestHealth() {
	s.NoError(s.producer.Health(context.Background()))
}
