package model

import "time"

// Payment statuses.
const (
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

type Payment struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingReference string    `json:"booking_reference" bson:"booking_reference" validate:"required,min=1,max=50"`
	CustomerID       string    `json:"customer_id" bson:"customer_id" validate:"required,min=1,max=100"`
	Amount           float64   `json:"amount" bson:"amount" validate:"required,min=0"`
	Status           string    `json:"status" bson:"status" validate:"required,oneof=completed failed"`
	Method           string    `json:"method" bson:"method" validate:"required,oneof=card transfer"`
	CardLastFour     string    `json:"card_last_four,omitempty" bson:"card_last_four,omitempty" validate:"omitempty,len=4,numeric"`
	TransactionID    string    `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	Gateway          string    `json:"gateway,omitempty" bson:"gateway,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty" bson:"error_message,omitempty"`
	PaidAt           time.Time `json:"paid_at" bson:"paid_at" validate:"omitempty"`
}
