package booking

import (
	"context"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

type DetailID string

// Detail is the stay/occupancy/pricing facet of a booking. It is created
// together with its Booking and owned exclusively by it.
type Detail struct {
	ID          DetailID
	BookingID   BookingID
	Range       daterange.DateRange
	Guests      int
	NightlyRate money.Money
	Discount    money.Money
	Subtotal    money.Money
	Services    []string
}

type DetailRepository interface {
	Save(ctx context.Context, d *Detail) error
	ByBooking(ctx context.Context, id BookingID) (*Detail, error)
}
