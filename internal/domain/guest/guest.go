package guest

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("guest: not found")

type GuestID string

// Guest is the minimal snapshot of an account needed by the booking
// core. Account management is an external collaborator.
type Guest struct {
	ID    GuestID
	Name  string
	Email string
}

type Repository interface {
	ByID(ctx context.Context, id GuestID) (*Guest, error)
	ExistsByID(ctx context.Context, id GuestID) (bool, error)
}
