package memory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "staybook/internal/domain/booking"
	"staybook/internal/domain/pricing"
	"staybook/internal/domain/shared/money"
	"staybook/internal/infra/storage/memory"
)

func seedBooking(t *testing.T, id domainbooking.BookingID, inDay, outDay int) *domainbooking.Booking {
	t.Helper()
	dr := rangeOf(t, inDay, outDay)
	quote, err := pricing.NewQuote(dr.Nights(), money.Must(10000, "USD"), money.Zero("USD"))
	require.NoError(t, err)
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:              id,
		GuestID:         "guest-1",
		AccommodationID: "acc-1",
		Range:           dr,
		Guests:          2,
		Quote:           quote,
		DetailID:        domainbooking.DetailID(string(id) + "-detail"),
		Now:             time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestBookingRepositorySave_OptimisticVersioning(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := t.Context()

	b := seedBooking(t, "bk-1", 10, 12)
	require.NoError(t, repo.Save(ctx, b))
	assert.Equal(t, int64(1), b.Version)

	stale, err := repo.ByID(ctx, "bk-1")
	require.NoError(t, err)
	current, err := repo.ByID(ctx, "bk-1")
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, current))
	err = repo.Save(ctx, stale)
	assert.ErrorIs(t, err, memory.ErrConcurrentUpdate)
}

func TestBookingRepositoryByID_OmitsDetail(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := t.Context()

	require.NoError(t, repo.Save(ctx, seedBooking(t, "bk-1", 10, 12)))

	bare, err := repo.ByID(ctx, "bk-1")
	require.NoError(t, err)
	assert.Nil(t, bare.Detail)

	full, err := repo.ByIDWithDetail(ctx, "bk-1")
	require.NoError(t, err)
	require.NotNil(t, full.Detail)
	assert.Equal(t, 2, full.Detail.Guests)
}

func TestBookingRepositoryIsOverlapping_SkipsCancelled(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := t.Context()

	b := seedBooking(t, "bk-1", 10, 13)
	require.NoError(t, repo.Save(ctx, b))

	overlapping, err := repo.IsOverlapping(ctx, "acc-1", rangeOf(t, 12, 15))
	require.NoError(t, err)
	assert.True(t, overlapping)

	require.NoError(t, b.Cancel(time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Save(ctx, b))

	overlapping, err = repo.IsOverlapping(ctx, "acc-1", rangeOf(t, 12, 15))
	require.NoError(t, err)
	assert.False(t, overlapping)
}

func TestBookingRepositoryLists(t *testing.T) {
	repo := memory.NewBookingRepository()
	ctx := t.Context()

	require.NoError(t, repo.Save(ctx, seedBooking(t, "bk-1", 10, 12)))
	require.NoError(t, repo.Save(ctx, seedBooking(t, "bk-2", 14, 16)))

	byGuest, err := repo.ListByGuest(ctx, "guest-1")
	require.NoError(t, err)
	assert.Len(t, byGuest, 2)

	byAccommodation, err := repo.ListByAccommodation(ctx, "acc-1")
	require.NoError(t, err)
	assert.Len(t, byAccommodation, 2)

	none, err := repo.ListByGuest(ctx, "guest-unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}
