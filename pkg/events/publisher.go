package events

import (
	"context"

	"stayledger/pkg/kafka"
)

// Producer is the subset of the Kafka producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Publisher publishes booking lifecycle events keyed by booking reference
// so that events for one booking land on the same partition.
type Publisher struct {
	producer Producer
	source   string
}

func NewPublisher(producer Producer, source string) *Publisher {
	return &Publisher{
		producer: producer,
		source:   source,
	}
}

// PublishBooking publishes a booking event of the given type.
func (p *Publisher) PublishBooking(ctx context.Context, eventType string, event BookingEvent) error {
	msg := kafka.NewMessage().
		WithKey(event.Reference).
		WithValue(event).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}

// PublishPayment publishes a payment event keyed by booking reference.
func (p *Publisher) PublishPayment(ctx context.Context, event PaymentEvent) error {
	msg := kafka.NewMessage().
		WithKey(event.BookingReference).
		WithValue(event).
		WithEventType(TypePaymentRecorded).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}
