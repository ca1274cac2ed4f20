package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"certledger/internal/registry/models"
)

// KafkaPublisher writes events to a single topic, keyed by token id so an
// individual credential's history stays in one partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafka connects a producer for the given brokers and topic.
func NewKafka(brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   eventKey(event),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// eventKey partitions certificate events by token id and everything else by
// the acted-on address.
func eventKey(event models.Event) []byte {
	switch event.Type {
	case models.EventCertificateIssued, models.EventCertificateRevoked:
		return []byte(event.TokenID.String())
	default:
		return []byte(event.Grantee.String())
	}
}
