package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/booking"
)

func TestNewCancellationPolicy(t *testing.T) {
	p, err := booking.NewCancellationPolicy(0)
	require.NoError(t, err)
	assert.Equal(t, booking.DefaultCancellationWindow, p.Window)

	p, err = booking.NewCancellationPolicy(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, p.Window)

	_, err = booking.NewCancellationPolicy(-time.Hour)
	assert.ErrorIs(t, err, booking.ErrCancellationWindowNegative)
}

func TestCheckPermission(t *testing.T) {
	b := newTestBooking(t, booking.StateConfirmed)
	policy := booking.CancellationPolicy{}

	t.Run("booking guest may cancel", func(t *testing.T) {
		assert.NoError(t, policy.CheckPermission(b, "host-1", "guest-1", ""))
	})

	t.Run("accommodation host may cancel", func(t *testing.T) {
		assert.NoError(t, policy.CheckPermission(b, "host-1", "", "host-1"))
	})

	t.Run("stranger may not", func(t *testing.T) {
		err := policy.CheckPermission(b, "host-1", "guest-other", "host-other")
		assert.ErrorIs(t, err, booking.ErrPermissionDenied)
	})

	t.Run("absent identity may not", func(t *testing.T) {
		err := policy.CheckPermission(b, "host-1", "", "")
		assert.ErrorIs(t, err, booking.ErrPermissionDenied)
	})
}

func TestCheckWindow(t *testing.T) {
	policy, err := booking.NewCancellationPolicy(48 * time.Hour)
	require.NoError(t, err)
	checkIn := date(2026, 7, 10)
	deadline := date(2026, 7, 8)

	t.Run("before deadline passes", func(t *testing.T) {
		assert.NoError(t, policy.CheckWindow(checkIn, deadline.Add(-time.Second)))
	})

	t.Run("exactly at deadline fails", func(t *testing.T) {
		err := policy.CheckWindow(checkIn, deadline)
		assert.ErrorIs(t, err, booking.ErrCancellationWindowExpired)
	})

	t.Run("after deadline fails", func(t *testing.T) {
		err := policy.CheckWindow(checkIn, deadline.Add(time.Hour))
		assert.ErrorIs(t, err, booking.ErrCancellationWindowExpired)
	})

	t.Run("check-in time of day is ignored", func(t *testing.T) {
		lateCheckIn := time.Date(2026, 7, 10, 18, 30, 0, 0, time.UTC)
		err := policy.CheckWindow(lateCheckIn, deadline)
		assert.ErrorIs(t, err, booking.ErrCancellationWindowExpired)
	})
}
