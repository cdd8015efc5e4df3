package booking

import (
	"context"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainguest "staybook/internal/domain/guest"
)

const cancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID        string
	RequesterGuestID string
	RequesterHostID  string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingResult struct {
	Cancelled bool `json:"cancelled"`
}

type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Policy     domainbooking.CancellationPolicy
	Clock      func() time.Time
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	unit, ctx, scope, err := openUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer scope.Close(ctx)

	now := h.now()

	b, err := unit.Bookings().ByIDWithDetail(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	acc, err := unit.Accommodations().ByID(ctx, b.AccommodationID)
	if err != nil {
		return nil, err
	}

	if err := h.Policy.CheckPermission(b, acc.Host, domainguest.GuestID(cmd.RequesterGuestID), domainaccommodation.HostID(cmd.RequesterHostID)); err != nil {
		return nil, err
	}
	if b.Detail == nil {
		return nil, domainbooking.ErrNotFound
	}
	if err := h.Policy.CheckWindow(b.Detail.Range.CheckIn, now); err != nil {
		return nil, err
	}

	if err := b.Cancel(now); err != nil {
		return nil, err
	}

	// Cancelled bookings no longer hold their night cells, so the range
	// becomes reservable again.
	if err := unit.Calendar().Release(ctx, b.ID); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if err := scope.Commit(ctx); err != nil {
		return nil, err
	}

	return &CancelBookingResult{Cancelled: true}, nil
}

func (h *CancelBookingHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
