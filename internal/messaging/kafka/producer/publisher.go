package producer

import (
	"context"

	"go-workforce/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// Publisher is the slice of kafkago.Writer the relay needs.
// *kafkago.Writer satisfies it directly.
type Publisher interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func publishEvent(ctx context.Context, publisher Publisher, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
	}

	return publisher.WriteMessages(ctx, msg)
}
