package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/unasp-marketplace/internal/infrastructure/store"
	"github.com/segmentio/kafka-go"
)

// Header keys set on every published event, so consumers can filter without
// decoding the payload.
const (
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
)

// Producer publishes stored events to one topic. Events are keyed by
// aggregate id, so a cart's events stay on one partition in version order.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}}
}

// Publish implements store.Publisher.
func (p *Producer) Publish(ctx context.Context, event store.Event) error {
	msg, err := newMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write %s v%d of %s: %w", event.EventType, event.Version, event.AggregateID, err)
	}
	return nil
}

func newMessage(event store.Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode %s: %w", event.EventType, err)
	}
	return kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: value,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(event.EventType)},
			{Key: HeaderAggregateType, Value: []byte(event.AggregateType)},
		},
	}, nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
