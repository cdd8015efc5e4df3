package uow

import (
	"context"

	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainguest "staybook/internal/domain/guest"
)

// UnitOfWork coordinates repositories inside a transaction boundary. The
// overlap check and the reservation insert run inside the same unit, which
// is what keeps double-booking impossible under concurrent requests.
type UnitOfWork interface {
	Accommodations() domainaccommodation.Repository
	Guests() domainguest.Repository
	Bookings() domainbooking.Repository
	Details() domainbooking.DetailRepository
	Calendar() domainbooking.Calendar

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
