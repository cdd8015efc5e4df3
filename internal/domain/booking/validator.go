package booking

import (
	"errors"
	"time"

	"staybook/internal/domain/shared/daterange"
)

var (
	ErrPastDate          = errors.New("booking: check-in date is in the past")
	ErrMinimumStay       = errors.New("booking: checkout must be after checkin")
	ErrMaximumStay       = errors.New("booking: stay exceeds the maximum length")
	ErrCapacityExceeded  = errors.New("booking: guests exceed accommodation capacity")
	ErrInvalidGuestCount = errors.New("booking: guests count must be positive")
)

// DefaultMaxStayNights bounds a single reservation.
const DefaultMaxStayNights = 30

// ValidateDates enforces the date invariants of a proposed stay relative
// to "today" (start of day of now). Pure function, no side effects.
func ValidateDates(checkIn, checkOut, now time.Time, maxStayNights int) error {
	if maxStayNights <= 0 {
		maxStayNights = DefaultMaxStayNights
	}
	today := daterange.StartOfDay(now)
	in := daterange.StartOfDay(checkIn)
	out := daterange.StartOfDay(checkOut)
	if in.Before(today) {
		return ErrPastDate
	}
	if !out.After(in) {
		return ErrMinimumStay
	}
	if int(out.Sub(in).Hours()/24) > maxStayNights {
		return ErrMaximumStay
	}
	return nil
}

// ValidateCapacity enforces the occupancy invariants of a proposed stay.
func ValidateCapacity(requestedGuests, maxCapacity int) error {
	if requestedGuests <= 0 {
		return ErrInvalidGuestCount
	}
	if requestedGuests > maxCapacity {
		return ErrCapacityExceeded
	}
	return nil
}
