// Package notifier turns booking and payment events into guest notifications.
// Delivery is currently log-only; the switch below is where real channels
// (email, SMS) plug in.
package notifier

import (
	"context"
	"fmt"

	"stayledger/pkg/events"
	"stayledger/pkg/kafka"
	"stayledger/pkg/logger"
)

type Notifier struct {
	log *logger.Logger
}

func NewNotifier(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

// Handle is the consumer entry point. Unknown event types are treated as
// permanent failures so they land in the DLQ instead of retry loops.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	eventType := msg.GetEventType()

	switch eventType {
	case events.TypeBookingCreated,
		events.TypeBookingConfirmed,
		events.TypeBookingCancelled,
		events.TypeBookingExpired,
		events.TypeBookingCompleted:
		return n.handleBooking(ctx, eventType, msg)
	case events.TypePaymentRecorded:
		return n.handlePayment(ctx, msg)
	default:
		return kafka.NewPermanentError(
			fmt.Sprintf("unknown event type: %q", eventType), nil)
	}
}

func (n *Notifier) handleBooking(_ context.Context, eventType string, msg kafka.Message) error {
	var event events.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode booking event", err)
	}

	if event.Reference == "" || event.CustomerID == "" {
		return kafka.NewPermanentError("booking event missing reference or customer", nil).
			WithDetail("event_id", msg.GetEventID())
	}

	switch eventType {
	case events.TypeBookingCreated:
		n.log.Info("Notifying customer of pending hold",
			"customer_id", event.CustomerID,
			"reference", event.Reference,
			"check_in", event.CheckIn,
			"check_out", event.CheckOut,
			"total_price", event.TotalPrice,
		)
	case events.TypeBookingConfirmed:
		n.log.Info("Sending booking confirmation",
			"customer_id", event.CustomerID,
			"reference", event.Reference,
			"check_in", event.CheckIn,
			"check_out", event.CheckOut,
		)
	case events.TypeBookingCancelled, events.TypeBookingExpired:
		n.log.Info("Sending cancellation notice",
			"customer_id", event.CustomerID,
			"reference", event.Reference,
			"event_type", eventType,
		)
	case events.TypeBookingCompleted:
		n.log.Info("Sending post-stay follow-up",
			"customer_id", event.CustomerID,
			"reference", event.Reference,
		)
	}

	return nil
}

func (n *Notifier) handlePayment(_ context.Context, msg kafka.Message) error {
	var event events.PaymentEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode payment event", err)
	}

	if event.BookingReference == "" {
		return kafka.NewPermanentError("payment event missing booking reference", nil).
			WithDetail("event_id", msg.GetEventID())
	}

	n.log.Info("Sending payment receipt",
		"customer_id", event.CustomerID,
		"booking_reference", event.BookingReference,
		"amount", event.Amount,
		"status", event.Status,
		"transaction_id", event.TransactionID,
	)

	return nil
}
