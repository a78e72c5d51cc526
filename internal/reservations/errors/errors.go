package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrInvalidDateRange = errors.New("check-out date must be after check-in date")

	ErrDateConflict = errors.New("room is already booked for the requested dates")

	ErrConcurrentModification = errors.New("booking was modified by another request")
)
