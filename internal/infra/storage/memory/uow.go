package memory

import (
	"context"
	"errors"

	"staybook/internal/app/uow"
	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainguest "staybook/internal/domain/guest"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	AccommodationRepo domainaccommodation.Repository
	GuestRepo         domainguest.Repository
	BookingRepo       domainbooking.Repository
	DetailRepo        domainbooking.DetailRepository
	CalendarStore     domainbooking.Calendar
}

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. The in-memory stores
// apply each write immediately; atomicity of the reserve path comes from
// the calendar's lock rather than from commit/rollback.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.AccommodationRepo == nil || f.GuestRepo == nil || f.BookingRepo == nil || f.DetailRepo == nil || f.CalendarStore == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		accommodations: f.AccommodationRepo,
		guests:         f.GuestRepo,
		bookings:       f.BookingRepo,
		details:        f.DetailRepo,
		calendar:       f.CalendarStore,
	}, nil
}

type Unit struct {
	accommodations domainaccommodation.Repository
	guests         domainguest.Repository
	bookings       domainbooking.Repository
	details        domainbooking.DetailRepository
	calendar       domainbooking.Calendar
}

func (u *Unit) Accommodations() domainaccommodation.Repository { return u.accommodations }

func (u *Unit) Guests() domainguest.Repository { return u.guests }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Details() domainbooking.DetailRepository { return u.details }

func (u *Unit) Calendar() domainbooking.Calendar { return u.calendar }

func (u *Unit) Commit(ctx context.Context) error { return nil }

func (u *Unit) Rollback(ctx context.Context) error { return nil }

var _ uow.UnitOfWork = (*Unit)(nil)
var _ uow.UoWFactory = Factory{}
