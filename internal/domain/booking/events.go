package booking

import (
	"time"

	"staybook/internal/domain/accommodation"
	"staybook/internal/domain/guest"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

// Lifecycle events consumed by external collaborators (notification,
// payment capture/refund). The core records them; it never acts on them.

type Created struct {
	BookingID       BookingID
	AccommodationID accommodation.AccommodationID
	GuestID         guest.GuestID
	Range           daterange.DateRange
	Guests          int
	Total           money.Money
	State           State
	At              time.Time
}

func (e Created) EventName() string     { return "booking.created" }
func (e Created) AggregateID() string   { return string(e.BookingID) }
func (e Created) OccurredAt() time.Time { return e.At }

type Updated struct {
	BookingID BookingID
	State     State
	At        time.Time
}

func (e Updated) EventName() string     { return "booking.updated" }
func (e Updated) AggregateID() string   { return string(e.BookingID) }
func (e Updated) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	BookingID       BookingID
	AccommodationID accommodation.AccommodationID
	GuestID         guest.GuestID
	At              time.Time
}

func (e Cancelled) EventName() string     { return "booking.cancelled" }
func (e Cancelled) AggregateID() string   { return string(e.BookingID) }
func (e Cancelled) OccurredAt() time.Time { return e.At }
