package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/money"
)

func TestNewQuote_MultipliesRateByNights(t *testing.T) {
	quote, err := pricing.NewQuote(3, money.Must(10000, "USD"), money.Zero("USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(30000), quote.Subtotal.Amount)
	assert.Equal(t, "USD", quote.Subtotal.Currency)
	assert.Equal(t, 3, quote.Nights)
}

func TestNewQuote_AppliesDiscount(t *testing.T) {
	quote, err := pricing.NewQuote(2, money.Must(10000, "USD"), money.Must(2500, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(17500), quote.Subtotal.Amount)
	assert.Equal(t, int64(2500), quote.Discount.Amount)
}

func TestNewQuote_ClampsOversizedDiscountAtZero(t *testing.T) {
	quote, err := pricing.NewQuote(1, money.Must(5000, "USD"), money.Must(9000, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.Subtotal.Amount)
}

func TestNewQuote_DefaultsDiscountCurrency(t *testing.T) {
	quote, err := pricing.NewQuote(2, money.Must(10000, "EUR"), money.Money{})
	require.NoError(t, err)
	assert.Equal(t, "EUR", quote.Discount.Currency)
	assert.Equal(t, int64(20000), quote.Subtotal.Amount)
}

func TestNewQuote_Validation(t *testing.T) {
	_, err := pricing.NewQuote(0, money.Must(10000, "USD"), money.Zero("USD"))
	assert.ErrorIs(t, err, pricing.ErrInvalidNights)

	_, err = pricing.NewQuote(1, money.Money{Amount: -1, Currency: "USD"}, money.Zero("USD"))
	assert.ErrorIs(t, err, pricing.ErrNegativeRate)

	_, err = pricing.NewQuote(1, money.Must(10000, "USD"), money.Money{Amount: -1, Currency: "USD"})
	assert.ErrorIs(t, err, pricing.ErrNegativeDiscount)

	_, err = pricing.NewQuote(1, money.Must(10000, "USD"), money.Must(100, "EUR"))
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}
