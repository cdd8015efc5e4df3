package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "staybook/internal/domain/booking"
)

func TestCancelBooking_GuestCancels(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.createHandler().Handle(t.Context(), env.createCommand())
	require.NoError(t, err)

	policy, err := domainbooking.NewCancellationPolicy(48 * time.Hour)
	require.NoError(t, err)
	handler := env.cancelHandler(policy)

	// Check-in is nine days out, well before the deadline.
	result, err := handler.Handle(t.Context(), cancelCommand(created.ID, "guest-1", ""))
	require.NoError(t, err)
	assert.True(t, result.Cancelled)

	stored := mustFindBooking(t, env, created.ID)
	assert.Equal(t, domainbooking.StateCancelled, stored.State)
}

func TestCancelBooking_HostCancels(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.createHandler().Handle(t.Context(), env.createCommand())
	require.NoError(t, err)

	handler := env.cancelHandler(domainbooking.CancellationPolicy{})
	_, err = handler.Handle(t.Context(), cancelCommand(created.ID, "", "host-1"))
	assert.NoError(t, err)
}

func TestCancelBooking_StrangerDenied(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.createHandler().Handle(t.Context(), env.createCommand())
	require.NoError(t, err)

	handler := env.cancelHandler(domainbooking.CancellationPolicy{})
	_, err = handler.Handle(t.Context(), cancelCommand(created.ID, "guest-other", "host-other"))
	assert.ErrorIs(t, err, domainbooking.ErrPermissionDenied)

	stored := mustFindBooking(t, env, created.ID)
	assert.Equal(t, domainbooking.StatePending, stored.State)
}

func TestCancelBooking_WindowExpired(t *testing.T) {
	env := newTestEnv(t)
	cmd := env.createCommand()
	// Check-in tomorrow: inside the 48h window.
	cmd.CheckIn = time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)
	cmd.CheckOut = time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	created, err := env.createHandler().Handle(t.Context(), cmd)
	require.NoError(t, err)

	policy, err := domainbooking.NewCancellationPolicy(48 * time.Hour)
	require.NoError(t, err)
	handler := env.cancelHandler(policy)

	_, err = handler.Handle(t.Context(), cancelCommand(created.ID, "guest-1", ""))
	assert.ErrorIs(t, err, domainbooking.ErrCancellationWindowExpired)

	stored := mustFindBooking(t, env, created.ID)
	assert.Equal(t, domainbooking.StatePending, stored.State)
}

func TestCancelBooking_UnknownBooking(t *testing.T) {
	env := newTestEnv(t)
	handler := env.cancelHandler(domainbooking.CancellationPolicy{})

	_, err := handler.Handle(t.Context(), cancelCommand("bk-missing", "guest-1", ""))
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.createHandler().Handle(t.Context(), env.createCommand())
	require.NoError(t, err)

	handler := env.cancelHandler(domainbooking.CancellationPolicy{})
	_, err = handler.Handle(t.Context(), cancelCommand(created.ID, "guest-1", ""))
	require.NoError(t, err)

	_, err = handler.Handle(t.Context(), cancelCommand(created.ID, "guest-1", ""))
	assert.ErrorIs(t, err, domainbooking.ErrTerminalState)
}

func TestCancelBooking_ReleasesNightCells(t *testing.T) {
	env := newTestEnv(t)
	createHandler := env.createHandler()
	created, err := createHandler.Handle(t.Context(), env.createCommand())
	require.NoError(t, err)

	handler := env.cancelHandler(domainbooking.CancellationPolicy{})
	_, err = handler.Handle(t.Context(), cancelCommand(created.ID, "guest-1", ""))
	require.NoError(t, err)

	// The freed range is bookable again.
	_, err = createHandler.Handle(t.Context(), env.createCommand())
	assert.NoError(t, err)
}
