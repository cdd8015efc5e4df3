package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/middleware"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainguest "staybook/internal/domain/guest"
	domainpricing "staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	CommandID       string
	AccommodationID string
	GuestID         string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	DiscountCents   int64
	Services        []string
	// RequestedState lets pre-authorized callers skip PENDING. Empty means
	// PENDING; terminal labels are rejected.
	RequestedState  string
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &dto.BookingView{} }

type CreateBookingHandler struct {
	UoWFactory    uow.UoWFactory
	Outbox        outbox.Outbox
	Encoder       outbox.EventEncoder
	MaxStayNights int
	Clock         func() time.Time
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*dto.BookingView, error) {
	unit, ctx, scope, err := openUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer scope.Close(ctx)

	now := h.now()

	acc, err := unit.Accommodations().ByID(ctx, domainaccommodation.AccommodationID(cmd.AccommodationID))
	if err != nil {
		return nil, err
	}
	if !acc.Bookable() {
		return nil, domainaccommodation.ErrUnavailable
	}

	if _, err := unit.Guests().ByID(ctx, domainguest.GuestID(cmd.GuestID)); err != nil {
		return nil, err
	}

	if err := domainbooking.ValidateDates(cmd.CheckIn, cmd.CheckOut, now, h.MaxStayNights); err != nil {
		return nil, err
	}
	if err := domainbooking.ValidateCapacity(cmd.Guests, acc.MaxGuestCapacity); err != nil {
		return nil, err
	}

	initialState := domainbooking.StatePending
	if cmd.RequestedState != "" {
		initialState, err = domainbooking.ParseState(cmd.RequestedState)
		if err != nil {
			return nil, err
		}
	}

	dr, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	overlapping, err := unit.Bookings().IsOverlapping(ctx, acc.ID, dr)
	if err != nil {
		return nil, err
	}
	if overlapping {
		return nil, domainbooking.ErrDateConflict
	}

	rate := money.Money{Amount: acc.NightlyRateCents, Currency: acc.Currency}
	quote, err := domainpricing.NewQuote(dr.Nights(), rate, money.Money{Amount: cmd.DiscountCents, Currency: acc.Currency})
	if err != nil {
		return nil, err
	}

	bookingID := cmd.CommandID
	if bookingID == "" {
		bookingID = uuid.NewString()
	}
	created, err := domainbooking.New(domainbooking.CreateParams{
		ID:              domainbooking.BookingID(bookingID),
		GuestID:         domainguest.GuestID(cmd.GuestID),
		AccommodationID: acc.ID,
		Range:           dr,
		Guests:          cmd.Guests,
		Quote:           quote,
		Services:        cmd.Services,
		InitialState:    initialState,
		DetailID:        domainbooking.DetailID(uuid.NewString()),
		Now:             now,
	})
	if err != nil {
		return nil, err
	}

	// The overlap read above is advisory; the calendar claim is the
	// authoritative check-and-reserve and fails under a concurrent create.
	if err := unit.Calendar().Reserve(ctx, acc.ID, dr, created.ID); err != nil {
		return nil, err
	}
	if err := unit.Details().Save(ctx, created.Detail); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, created); err != nil {
		return nil, err
	}

	pending := created.PendingEvents()
	created.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}

	if err := scope.Commit(ctx); err != nil {
		return nil, err
	}

	view := dto.MapBookingView(created)
	return &view, nil
}

func (h *CreateBookingHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateBookingCommand, *dto.BookingView] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*CreateBookingCommand)(nil)
