package model

import "time"

// Room types.
const (
	RoomTypeStandard = "standard"
	RoomTypeDeluxe   = "deluxe"
	RoomTypeSuite    = "suite"
)

// Room carries no availability flag on purpose: availability is derived from
// the active bookings for the room, never stored alongside it.
type Room struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID      string    `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	Number       string    `json:"number" bson:"number" validate:"required,min=1,max=10"`
	Type         string    `json:"type" bson:"type" validate:"required,oneof=standard deluxe suite"`
	NightlyPrice float64   `json:"nightly_price" bson:"nightly_price" validate:"required,min=0"`
	MaxGuests    int       `json:"max_guests" bson:"max_guests" validate:"required,min=1,max=20"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type RoomUpdate struct {
	Number       string   `json:"number,omitempty" validate:"omitempty,min=1,max=10"`
	Type         string   `json:"type,omitempty" validate:"omitempty,oneof=standard deluxe suite"`
	NightlyPrice *float64 `json:"nightly_price,omitempty" validate:"omitempty,min=0"`
	MaxGuests    *int     `json:"max_guests,omitempty" validate:"omitempty,min=1,max=20"`
}
