package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for check-in/check-out dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date into its UTC midnight instant.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, must be YYYY-MM-DD: %w", s, err)
	}
	return t.UTC(), nil
}

// Today returns the UTC midnight instant of the current day.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
