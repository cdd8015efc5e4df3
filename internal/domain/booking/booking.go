package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"staybook/internal/domain/accommodation"
	"staybook/internal/domain/guest"
	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/events"
	"staybook/internal/domain/shared/money"
)

var (
	ErrNotFound          = errors.New("booking: not found")
	ErrDateConflict      = errors.New("booking: dates overlap an existing reservation")
	ErrInvalidStateLabel = errors.New("booking: unknown state label")
	ErrTerminalState     = errors.New("booking: no transitions allowed from a terminal state")
)

type BookingID string

type State string

const (
	StatePending   State = "PENDING"
	StateConfirmed State = "CONFIRMED"
	StateCheckOut  State = "CHECK_OUT"
	StateCompleted State = "COMPLETED"
	StateCancelled State = "CANCELLED"
)

// ParseState maps a free-form label onto the closed state set. Unknown
// labels fail loudly instead of defaulting.
func ParseState(label string) (State, error) {
	switch State(strings.ToUpper(strings.TrimSpace(label))) {
	case StatePending:
		return StatePending, nil
	case StateConfirmed:
		return StateConfirmed, nil
	case StateCheckOut:
		return StateCheckOut, nil
	case StateCompleted:
		return StateCompleted, nil
	case StateCancelled:
		return StateCancelled, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStateLabel, label)
	}
}

// Terminal reports whether no further transitions may leave the state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// Booking is one reservation of an accommodation by a guest. Its stay,
// occupancy and price breakdown live in the exclusively owned Detail.
type Booking struct {
	ID               BookingID
	GuestID          guest.GuestID
	AccommodationID  accommodation.AccommodationID
	DetailID         DetailID
	TransactionID    string
	State            State
	TotalPrice       money.Money
	PaymentConfirmed bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64

	// Detail is populated by ByIDWithDetail loads; nil otherwise.
	Detail *Detail

	events.EventRecorder
}

type CreateParams struct {
	ID              BookingID
	GuestID         guest.GuestID
	AccommodationID accommodation.AccommodationID
	Range           daterange.DateRange
	Guests          int
	Quote           pricing.Quote
	Services        []string
	InitialState    State
	DetailID        DetailID
	Now             time.Time
}

// New assembles a Booking together with its Detail. Identity is
// client-generated up front so both records reference each other before
// either is persisted.
func New(params CreateParams) (*Booking, error) {
	if params.ID == "" || params.DetailID == "" {
		return nil, errors.New("booking: identity must be assigned before construction")
	}
	if params.GuestID == "" {
		return nil, errors.New("booking: guest id required")
	}
	state := params.InitialState
	if state == "" {
		state = StatePending
	}
	if state.Terminal() {
		return nil, fmt.Errorf("%w: %q is terminal", ErrInvalidStateLabel, state)
	}
	now := params.Now.UTC()
	b := &Booking{
		ID:              params.ID,
		GuestID:         params.GuestID,
		AccommodationID: params.AccommodationID,
		DetailID:        params.DetailID,
		State:           state,
		TotalPrice:      params.Quote.Subtotal,
		CreatedAt:       now,
		UpdatedAt:       now,
		Detail: &Detail{
			ID:          params.DetailID,
			BookingID:   params.ID,
			Range:       params.Range,
			Guests:      params.Guests,
			NightlyRate: params.Quote.NightlyRate,
			Discount:    params.Quote.Discount,
			Subtotal:    params.Quote.Subtotal,
			Services:    append([]string(nil), params.Services...),
		},
	}
	b.Record(Created{
		BookingID:       b.ID,
		AccommodationID: b.AccommodationID,
		GuestID:         b.GuestID,
		Range:           params.Range,
		Guests:          params.Guests,
		Total:           b.TotalPrice,
		State:           b.State,
		At:              now,
	})
	return b, nil
}

// TransitionTo moves the booking into target. Terminal states are sinks.
func (b *Booking) TransitionTo(target State, now time.Time) error {
	if b.State.Terminal() {
		return ErrTerminalState
	}
	if b.State == target {
		return nil
	}
	b.State = target
	b.UpdatedAt = now.UTC()
	b.Record(Updated{BookingID: b.ID, State: b.State, At: b.UpdatedAt})
	return nil
}

// Cancel transitions any non-terminal booking to CANCELLED. Policy checks
// (permission, window) belong to the caller.
func (b *Booking) Cancel(now time.Time) error {
	if b.State.Terminal() {
		return ErrTerminalState
	}
	b.State = StateCancelled
	b.UpdatedAt = now.UTC()
	b.Record(Cancelled{BookingID: b.ID, AccommodationID: b.AccommodationID, GuestID: b.GuestID, At: b.UpdatedAt})
	return nil
}

// Touch refreshes UpdatedAt after scalar mutations.
func (b *Booking) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}

// Repository is the booking store contract. Save must apply optimistic
// versioning so concurrent mutations of the same row fail rather than
// silently overwrite.
type Repository interface {
	Save(ctx context.Context, b *Booking) error
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	ByIDWithDetail(ctx context.Context, id BookingID) (*Booking, error)
	ListByGuest(ctx context.Context, id guest.GuestID) ([]*Booking, error)
	ListByAccommodation(ctx context.Context, id accommodation.AccommodationID) ([]*Booking, error)
	// IsOverlapping reports whether any non-cancelled booking for the
	// accommodation intersects the half-open range.
	IsOverlapping(ctx context.Context, id accommodation.AccommodationID, r daterange.DateRange) (bool, error)
}

// Calendar is the atomic check-and-reserve contract over the
// accommodation's night cells. Reserve fails with ErrDateConflict when any
// night in the range is already held; a prior IsOverlapping read is never
// trusted on its own.
type Calendar interface {
	Reserve(ctx context.Context, id accommodation.AccommodationID, r daterange.DateRange, ref BookingID) error
	Release(ctx context.Context, ref BookingID) error
}
