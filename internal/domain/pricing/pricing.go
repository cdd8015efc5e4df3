package pricing

import (
	"errors"

	"staybook/internal/domain/shared/money"
)

var (
	ErrInvalidNights    = errors.New("pricing: nights must be at least 1")
	ErrNegativeRate     = errors.New("pricing: nightly rate must be non-negative")
	ErrNegativeDiscount = errors.New("pricing: discount must be non-negative")
)

// Quote is the price breakdown of a stay, snapshotted at booking time so
// later rate changes never touch existing reservations.
type Quote struct {
	Nights      int
	NightlyRate money.Money
	Discount    money.Money
	Subtotal    money.Money
}

// NewQuote computes nights*rate minus discount, floor-clamped at zero.
func NewQuote(nights int, nightlyRate, discount money.Money) (Quote, error) {
	if nights < 1 {
		return Quote{}, ErrInvalidNights
	}
	if nightlyRate.Amount < 0 {
		return Quote{}, ErrNegativeRate
	}
	if discount.Amount < 0 {
		return Quote{}, ErrNegativeDiscount
	}
	if discount.Currency == "" {
		discount = money.Zero(nightlyRate.Currency)
	}
	gross := nightlyRate.Multiply(int64(nights))
	subtotal, err := gross.Sub(discount)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Nights:      nights,
		NightlyRate: nightlyRate,
		Discount:    discount,
		Subtotal:    subtotal.ClampNonNegative(),
	}, nil
}
