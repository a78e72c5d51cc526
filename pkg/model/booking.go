package model

import (
	"time"
)

// Booking statuses. Pending and Confirmed count against room availability;
// Cancelled and Completed are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Actor roles accepted on booking mutations.
const (
	RoleCustomer = "customer"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Reference       string    `json:"reference,omitempty" bson:"reference" validate:"omitempty"`
	HotelID         string    `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	RoomID          string    `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	CustomerID      string    `json:"customer_id" bson:"customer_id" validate:"required,min=1,max=100"`
	CheckIn         time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut        time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Guests          int       `json:"guests" bson:"guests" validate:"required,min=1,max=20"`
	TotalPrice      float64   `json:"total_price" bson:"total_price" validate:"omitempty,min=0"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	SpecialRequests string    `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=500"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	Version         int64     `json:"version" bson:"version"`
}

// Nights returns the length of the [CheckIn, CheckOut) range in whole days.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// IsActive reports whether the booking still occupies its room's date range.
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Actor identifies the verified caller of a mutation. The identity service
// upstream is responsible for authentication; the ledger only checks ownership.
type Actor struct {
	ID   string `json:"id" validate:"required"`
	Role string `json:"role" validate:"required,oneof=customer manager admin"`
}

// PaymentResult is what the payment collaborator reports back for a booking.
type PaymentResult struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Succeeded     bool    `json:"succeeded"`
}

// Booking list filter options.
const (
	FilterStatusAll       = "all"
	FilterStatusUpcoming  = "upcoming"
	FilterStatusPast      = "past"
	FilterStatusCancelled = "cancelled"

	SortCheckInAsc  = "check_in_asc"
	SortCheckInDesc = "check_in_desc"
)

type BookingFilter struct {
	Status string `json:"status" validate:"omitempty,oneof=all upcoming past cancelled"`
	Sort   string `json:"sort" validate:"omitempty,oneof=check_in_asc check_in_desc"`
}
