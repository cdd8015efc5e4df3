package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"staybook/internal/app/dto"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainguest "staybook/internal/domain/guest"
)

const (
	listGuestBookingsKey         = "booking.list_by_guest"
	listAccommodationBookingsKey = "booking.list_by_accommodation"
)

type ListGuestBookingsQuery struct {
	GuestID string
}

func (q ListGuestBookingsQuery) Key() string { return listGuestBookingsKey }

type ListGuestBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListGuestBookingsHandler) Handle(ctx context.Context, q ListGuestBookingsQuery) (dto.BookingCollection, error) {
	guestID := strings.TrimSpace(q.GuestID)
	if guestID == "" {
		return dto.BookingCollection{}, errors.New("booking: guest id is required")
	}
	unit, ctx, scope, err := openReadUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	defer scope.Finish(ctx)

	bookings, err := unit.Bookings().ListByGuest(ctx, domainguest.GuestID(guestID))
	if err != nil {
		return dto.BookingCollection{}, err
	}
	items := mapViews(ctx, unit, bookings, h.Logger)

	if h.Logger != nil {
		h.Logger.Debug("guest bookings listed", "guest_id", guestID, "count", len(items))
	}
	return dto.BookingCollection{Items: items}, nil
}

type ListAccommodationBookingsQuery struct {
	AccommodationID string
}

func (q ListAccommodationBookingsQuery) Key() string { return listAccommodationBookingsKey }

type ListAccommodationBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListAccommodationBookingsHandler) Handle(ctx context.Context, q ListAccommodationBookingsQuery) (dto.BookingCollection, error) {
	accommodationID := strings.TrimSpace(q.AccommodationID)
	if accommodationID == "" {
		return dto.BookingCollection{}, errors.New("booking: accommodation id is required")
	}
	unit, ctx, scope, err := openReadUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	defer scope.Finish(ctx)

	bookings, err := unit.Bookings().ListByAccommodation(ctx, domainaccommodation.AccommodationID(accommodationID))
	if err != nil {
		return dto.BookingCollection{}, err
	}
	items := mapViews(ctx, unit, bookings, h.Logger)

	if h.Logger != nil {
		h.Logger.Debug("accommodation bookings listed", "accommodation_id", accommodationID, "count", len(items))
	}
	return dto.BookingCollection{Items: items}, nil
}

// mapViews loads details lazily for bookings whose detail was not part of
// the list read.
func mapViews(ctx context.Context, unit uow.UnitOfWork, bookings []*domainbooking.Booking, logger *slog.Logger) []dto.BookingView {
	items := make([]dto.BookingView, 0, len(bookings))
	for _, b := range bookings {
		if b.Detail == nil {
			detail, err := unit.Details().ByBooking(ctx, b.ID)
			if err == nil {
				b.Detail = detail
			} else if logger != nil {
				logger.Warn("detail record missing for booking", "booking_id", b.ID, "error", err)
			}
		}
		items = append(items, dto.MapBookingView(b))
	}
	return items
}

var _ queries.Handler[ListGuestBookingsQuery, dto.BookingCollection] = (*ListGuestBookingsHandler)(nil)
var _ queries.Handler[ListAccommodationBookingsQuery, dto.BookingCollection] = (*ListAccommodationBookingsHandler)(nil)
