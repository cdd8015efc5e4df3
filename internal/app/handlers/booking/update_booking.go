package booking

import (
	"context"
	"time"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainpricing "staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/money"
)

const updateBookingKey = "booking.update"

type UpdateBookingCommand struct {
	BookingID string
	// Optional scalar changes; nil means leave untouched.
	State            *string
	TotalPriceCents  *int64
	PaymentConfirmed *bool
	TransactionID    *string
	// Optional detail changes.
	DiscountCents *int64
	Services      []string
}

func (c UpdateBookingCommand) Key() string { return updateBookingKey }

type UpdateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Clock      func() time.Time
}

func (h *UpdateBookingHandler) Handle(ctx context.Context, cmd UpdateBookingCommand) (*dto.BookingView, error) {
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

	// Validate the label before touching anything else so a bad request
	// leaves the booking unchanged.
	if cmd.State != nil {
		target, err := domainbooking.ParseState(*cmd.State)
		if err != nil {
			return nil, err
		}
		if err := b.TransitionTo(target, now); err != nil {
			return nil, err
		}
		// Landing on CANCELLED frees the night cells the same way the
		// cancel path does; a cancelled booking must never block the range.
		if target == domainbooking.StateCancelled {
			if err := unit.Calendar().Release(ctx, b.ID); err != nil {
				return nil, err
			}
		}
	}

	if cmd.TotalPriceCents != nil {
		b.TotalPrice = money.Money{Amount: *cmd.TotalPriceCents, Currency: b.TotalPrice.Currency}
	}
	if cmd.PaymentConfirmed != nil {
		b.PaymentConfirmed = *cmd.PaymentConfirmed
	}
	if cmd.TransactionID != nil {
		b.TransactionID = *cmd.TransactionID
	}

	detailChanged := false
	if d := b.Detail; d != nil {
		if cmd.DiscountCents != nil {
			quote, err := domainpricing.NewQuote(d.Range.Nights(), d.NightlyRate, money.Money{Amount: *cmd.DiscountCents, Currency: d.NightlyRate.Currency})
			if err != nil {
				return nil, err
			}
			d.Discount = quote.Discount
			d.Subtotal = quote.Subtotal
			if cmd.TotalPriceCents == nil {
				b.TotalPrice = quote.Subtotal
			}
			detailChanged = true
		}
		if cmd.Services != nil {
			d.Services = append([]string(nil), cmd.Services...)
			detailChanged = true
		}
	}

	b.Touch(now)
	if detailChanged {
		if err := unit.Details().Save(ctx, b.Detail); err != nil {
			return nil, err
		}
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

	view := dto.MapBookingView(b)
	return &view, nil
}

func (h *UpdateBookingHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[UpdateBookingCommand, *dto.BookingView] = (*UpdateBookingHandler)(nil)
