package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/booking"
	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestBooking(t *testing.T, initial booking.State) *booking.Booking {
	t.Helper()
	dr, err := daterange.New(date(2026, 7, 10), date(2026, 7, 13))
	require.NoError(t, err)
	quote, err := pricing.NewQuote(dr.Nights(), money.Must(10000, "USD"), money.Zero("USD"))
	require.NoError(t, err)
	b, err := booking.New(booking.CreateParams{
		ID:              "bk-1",
		GuestID:         "guest-1",
		AccommodationID: "acc-1",
		Range:           dr,
		Guests:          2,
		Quote:           quote,
		InitialState:    initial,
		DetailID:        "det-1",
		Now:             date(2026, 7, 1),
	})
	require.NoError(t, err)
	return b
}

func TestParseState(t *testing.T) {
	cases := map[string]booking.State{
		"PENDING":   booking.StatePending,
		"confirmed": booking.StateConfirmed,
		" Check_Out ": booking.StateCheckOut,
		"COMPLETED": booking.StateCompleted,
		"cancelled": booking.StateCancelled,
	}
	for label, want := range cases {
		got, err := booking.ParseState(label)
		require.NoError(t, err, label)
		assert.Equal(t, want, got)
	}

	_, err := booking.ParseState("ARCHIVED")
	assert.ErrorIs(t, err, booking.ErrInvalidStateLabel)
	assert.Contains(t, err.Error(), "ARCHIVED")
}

func TestStateTerminal(t *testing.T) {
	assert.False(t, booking.StatePending.Terminal())
	assert.False(t, booking.StateConfirmed.Terminal())
	assert.False(t, booking.StateCheckOut.Terminal())
	assert.True(t, booking.StateCompleted.Terminal())
	assert.True(t, booking.StateCancelled.Terminal())
}

func TestNew_DefaultsToPending(t *testing.T) {
	b := newTestBooking(t, "")
	assert.Equal(t, booking.StatePending, b.State)
	require.NotNil(t, b.Detail)
	assert.Equal(t, booking.BookingID("bk-1"), b.Detail.BookingID)
	assert.Equal(t, booking.DetailID("det-1"), b.DetailID)
	assert.Equal(t, int64(30000), b.TotalPrice.Amount)

	events := b.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "booking.created", events[0].EventName())
}

func TestNew_RejectsTerminalInitialState(t *testing.T) {
	dr, err := daterange.New(date(2026, 7, 10), date(2026, 7, 13))
	require.NoError(t, err)
	quote, err := pricing.NewQuote(dr.Nights(), money.Must(10000, "USD"), money.Zero("USD"))
	require.NoError(t, err)
	_, err = booking.New(booking.CreateParams{
		ID:              "bk-1",
		GuestID:         "guest-1",
		AccommodationID: "acc-1",
		Range:           dr,
		Guests:          2,
		Quote:           quote,
		InitialState:    booking.StateCancelled,
		DetailID:        "det-1",
		Now:             date(2026, 7, 1),
	})
	assert.ErrorIs(t, err, booking.ErrInvalidStateLabel)
}

func TestTransitionTo_MovesThroughLifecycle(t *testing.T) {
	b := newTestBooking(t, booking.StatePending)
	b.ClearEvents()

	now := date(2026, 7, 14)
	require.NoError(t, b.TransitionTo(booking.StateConfirmed, now))
	require.NoError(t, b.TransitionTo(booking.StateCheckOut, now))
	require.NoError(t, b.TransitionTo(booking.StateCompleted, now))
	assert.Equal(t, booking.StateCompleted, b.State)
	assert.Len(t, b.PendingEvents(), 3)
}

func TestTransitionTo_TerminalStatesAreSinks(t *testing.T) {
	b := newTestBooking(t, booking.StatePending)
	now := date(2026, 7, 14)
	require.NoError(t, b.TransitionTo(booking.StateCompleted, now))

	err := b.TransitionTo(booking.StatePending, now)
	assert.ErrorIs(t, err, booking.ErrTerminalState)
	assert.Equal(t, booking.StateCompleted, b.State)
}

func TestTransitionTo_SameStateIsNoOp(t *testing.T) {
	b := newTestBooking(t, booking.StateConfirmed)
	b.ClearEvents()
	require.NoError(t, b.TransitionTo(booking.StateConfirmed, date(2026, 7, 14)))
	assert.Empty(t, b.PendingEvents())
}

func TestCancel(t *testing.T) {
	b := newTestBooking(t, booking.StateConfirmed)
	b.ClearEvents()

	require.NoError(t, b.Cancel(date(2026, 7, 2)))
	assert.Equal(t, booking.StateCancelled, b.State)
	events := b.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "booking.cancelled", events[0].EventName())

	assert.ErrorIs(t, b.Cancel(date(2026, 7, 3)), booking.ErrTerminalState)
}
