package notifier

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"stayledger/pkg/events"
	"stayledger/pkg/kafka"
	"stayledger/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func bookingMessage(t *testing.T, eventType string, event events.BookingEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return kafka.Message{
		Key:   event.Reference,
		Value: value,
		Headers: map[string]string{
			kafka.HeaderEventType: eventType,
			kafka.HeaderEventID:   "event-1",
		},
	}
}

func TestHandle_BookingLifecycleEvents(t *testing.T) {
	n := NewNotifier(testLogger())

	event := events.BookingEvent{
		Reference:  "BKG-654321-WXYZ",
		CustomerID: "cust-1",
		CheckIn:    "2026-09-10",
		CheckOut:   "2026-09-13",
		Status:     "confirmed",
		OccurredAt: time.Now().UTC(),
	}

	for _, eventType := range []string{
		events.TypeBookingCreated,
		events.TypeBookingConfirmed,
		events.TypeBookingCancelled,
		events.TypeBookingExpired,
		events.TypeBookingCompleted,
	} {
		if err := n.Handle(context.Background(), bookingMessage(t, eventType, event)); err != nil {
			t.Errorf("unexpected error for %s: %v", eventType, err)
		}
	}
}

func TestHandle_PaymentEvent(t *testing.T) {
	n := NewNotifier(testLogger())

	value, _ := json.Marshal(events.PaymentEvent{
		BookingReference: "BKG-654321-WXYZ",
		CustomerID:       "cust-1",
		Amount:           300,
		Status:           "completed",
		TransactionID:    "txn-1",
	})

	msg := kafka.Message{
		Key:     "BKG-654321-WXYZ",
		Value:   value,
		Headers: map[string]string{kafka.HeaderEventType: events.TypePaymentRecorded},
	}

	if err := n.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandle_UnknownEventTypeIsPermanent(t *testing.T) {
	n := NewNotifier(testLogger())

	msg := kafka.Message{
		Value:   []byte("{}"),
		Headers: map[string]string{kafka.HeaderEventType: "booking.teleported"},
	}

	err := n.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error for unknown event type")
	}

	kafkaErr, ok := err.(*kafka.KafkaError)
	if !ok {
		t.Fatalf("expected *KafkaError, got %T", err)
	}
	if !kafkaErr.IsPermanent() {
		t.Error("expected unknown event type to be a permanent failure")
	}
}

func TestHandle_MalformedPayloadIsPermanent(t *testing.T) {
	n := NewNotifier(testLogger())

	msg := kafka.Message{
		Value:   []byte("not json"),
		Headers: map[string]string{kafka.HeaderEventType: events.TypeBookingCreated},
	}

	err := n.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}

	kafkaErr, ok := err.(*kafka.KafkaError)
	if !ok {
		t.Fatalf("expected *KafkaError, got %T", err)
	}
	if !kafkaErr.IsPermanent() {
		t.Error("expected malformed payload to be a permanent failure")
	}
}

func TestHandle_MissingReferenceIsPermanent(t *testing.T) {
	n := NewNotifier(testLogger())

	event := events.BookingEvent{CustomerID: "cust-1"}
	err := n.Handle(context.Background(), bookingMessage(t, events.TypeBookingConfirmed, event))
	if err == nil {
		t.Fatal("expected error for booking event without a reference")
	}
}
