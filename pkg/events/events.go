package events

import "time"

// Booking lifecycle event types carried in the event-type message header.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingExpired   = "booking.expired"
	TypeBookingCompleted = "booking.completed"
	TypePaymentRecorded  = "payment.recorded"
)

// SchemaVersion is stamped on every published event.
const SchemaVersion = "1"

// BookingEvent is the payload published for every booking state change.
// CheckIn and CheckOut use the YYYY-MM-DD wire format.
type BookingEvent struct {
	Reference  string    `json:"reference"`
	HotelID    string    `json:"hotel_id"`
	RoomID     string    `json:"room_id"`
	CustomerID string    `json:"customer_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Guests     int       `json:"guests"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentEvent is the payload published when a payment attempt is recorded.
type PaymentEvent struct {
	BookingReference string    `json:"booking_reference"`
	CustomerID       string    `json:"customer_id"`
	Amount           float64   `json:"amount"`
	Status           string    `json:"status"`
	TransactionID    string    `json:"transaction_id,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
