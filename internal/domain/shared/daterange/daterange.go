package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: checkout must be after checkin")

// DateRange represents a half-open stay interval [checkIn, checkOut).
// A checkout on day N never conflicts with a check-in on day N, so
// back-to-back stays are allowed.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: StartOfDay(checkIn), CheckOut: StartOfDay(checkOut)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckIn.IsZero() || dr.CheckOut.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts the number of nights covered by the range.
func (dr DateRange) Nights() int {
	return int(dr.CheckOut.Sub(dr.CheckIn).Hours() / 24)
}

// Overlaps reports whether two half-open intervals intersect.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

// EachNight calls fn with the start-of-day timestamp of every night in
// the range. Used to materialize per-night reservation cells.
func (dr DateRange) EachNight(fn func(night time.Time)) {
	for night := dr.CheckIn; night.Before(dr.CheckOut); night = night.AddDate(0, 0, 1) {
		fn(night)
	}
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
