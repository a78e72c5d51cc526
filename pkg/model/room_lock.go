package model

import "time"

// RoomLock is an advisory lock serializing hold creation per room.
// It exists only to close the window between the overlap check and the
// booking insert; the unique index on active bookings is the backstop.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
