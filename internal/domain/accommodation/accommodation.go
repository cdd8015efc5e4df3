package accommodation

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("accommodation: not found")
	ErrUnavailable = errors.New("accommodation: not approved or not active")
)

type AccommodationID string
type HostID string

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

type OperationalStatus string

const (
	OperationalActive    OperationalStatus = "ACTIVE"
	OperationalSuspended OperationalStatus = "SUSPENDED"
	OperationalClosed    OperationalStatus = "CLOSED"
)

// Accommodation is the booking core's read snapshot of a listing. The
// listing catalog itself lives in another service; the core only needs
// capacity, host ownership and operational state.
type Accommodation struct {
	ID                AccommodationID
	Host              HostID
	Name              string
	MaxGuestCapacity  int
	NightlyRateCents  int64
	Currency          string
	ApprovalStatus    ApprovalStatus
	OperationalStatus OperationalStatus
}

// Bookable reports whether new reservations may target the accommodation.
func (a Accommodation) Bookable() bool {
	return a.ApprovalStatus == ApprovalApproved && a.OperationalStatus == OperationalActive
}

type Repository interface {
	ByID(ctx context.Context, id AccommodationID) (*Accommodation, error)
	ExistsByID(ctx context.Context, id AccommodationID) (bool, error)
}
