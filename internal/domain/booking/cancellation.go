package booking

import (
	"errors"
	"time"

	"staybook/internal/domain/accommodation"
	"staybook/internal/domain/guest"
	"staybook/internal/domain/shared/daterange"
)

var (
	ErrPermissionDenied           = errors.New("booking: requester is neither the booking guest nor the accommodation host")
	ErrCancellationWindowExpired  = errors.New("booking: cancellation window has expired")
	ErrCancellationWindowNegative = errors.New("booking: cancellation window must be positive")
)

// DefaultCancellationWindow is how long before check-in cancellation
// closes.
const DefaultCancellationWindow = 48 * time.Hour

// CancellationPolicy decides whether a cancellation request is permitted
// and still inside the allowed window.
type CancellationPolicy struct {
	Window time.Duration
}

func NewCancellationPolicy(window time.Duration) (CancellationPolicy, error) {
	if window < 0 {
		return CancellationPolicy{}, ErrCancellationWindowNegative
	}
	if window == 0 {
		window = DefaultCancellationWindow
	}
	return CancellationPolicy{Window: window}, nil
}

// CheckPermission succeeds when the requester owns the booking as guest or
// hosts the booked accommodation. Absent requester ids always fail.
func (CancellationPolicy) CheckPermission(b *Booking, host accommodation.HostID, requesterGuest guest.GuestID, requesterHost accommodation.HostID) error {
	if requesterGuest != "" && requesterGuest == b.GuestID {
		return nil
	}
	if requesterHost != "" && requesterHost == host {
		return nil
	}
	return ErrPermissionDenied
}

// CheckWindow fails once now reaches the deadline, which is start of the
// check-in day minus the window. The boundary itself is already too late.
func (p CancellationPolicy) CheckWindow(checkIn, now time.Time) error {
	deadline := daterange.StartOfDay(checkIn).Add(-p.window())
	if !now.UTC().Before(deadline) {
		return ErrCancellationWindowExpired
	}
	return nil
}

func (p CancellationPolicy) window() time.Duration {
	if p.Window <= 0 {
		return DefaultCancellationWindow
	}
	return p.Window
}
