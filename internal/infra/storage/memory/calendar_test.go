package memory_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "staybook/internal/domain/booking"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/infra/storage/memory"
)

func rangeOf(t *testing.T, inDay, outDay int) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, 7, inDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, outDay, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return dr
}

func TestCalendarReserve_ConflictOnSharedNight(t *testing.T) {
	cal := memory.NewCalendar()
	ctx := t.Context()

	require.NoError(t, cal.Reserve(ctx, "acc-1", rangeOf(t, 10, 13), "bk-1"))

	err := cal.Reserve(ctx, "acc-1", rangeOf(t, 12, 15), "bk-2")
	assert.ErrorIs(t, err, domainbooking.ErrDateConflict)

	// The failed attempt must not keep its non-conflicting nights.
	require.NoError(t, cal.Release(ctx, "bk-1"))
	assert.NoError(t, cal.Reserve(ctx, "acc-1", rangeOf(t, 10, 15), "bk-3"))
}

func TestCalendarReserve_BackToBackAndOtherAccommodation(t *testing.T) {
	cal := memory.NewCalendar()
	ctx := t.Context()

	require.NoError(t, cal.Reserve(ctx, "acc-1", rangeOf(t, 10, 12), "bk-1"))
	assert.NoError(t, cal.Reserve(ctx, "acc-1", rangeOf(t, 12, 14), "bk-2"))
	assert.NoError(t, cal.Reserve(ctx, "acc-2", rangeOf(t, 10, 12), "bk-3"))
}

func TestCalendarReserve_ReentrantForSameBooking(t *testing.T) {
	cal := memory.NewCalendar()
	ctx := t.Context()

	require.NoError(t, cal.Reserve(ctx, "acc-1", rangeOf(t, 10, 12), "bk-1"))
	assert.NoError(t, cal.Reserve(ctx, "acc-1", rangeOf(t, 10, 12), "bk-1"))
}

func TestCalendarRelease_FreesOnlyOwnNights(t *testing.T) {
	cal := memory.NewCalendar()
	ctx := t.Context()

	require.NoError(t, cal.Reserve(ctx, "acc-1", rangeOf(t, 10, 12), "bk-1"))
	require.NoError(t, cal.Reserve(ctx, "acc-1", rangeOf(t, 12, 14), "bk-2"))
	require.NoError(t, cal.Release(ctx, "bk-1"))

	assert.NoError(t, cal.Reserve(ctx, "acc-1", rangeOf(t, 10, 12), "bk-3"))
	err := cal.Reserve(ctx, "acc-1", rangeOf(t, 12, 14), "bk-4")
	assert.ErrorIs(t, err, domainbooking.ErrDateConflict)
}

func TestCalendarReserve_ConcurrentClaimsOneWinner(t *testing.T) {
	cal := memory.NewCalendar()
	dr := rangeOf(t, 10, 13)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ref := domainbooking.BookingID(string(rune('a' + i)))
			errs[i] = cal.Reserve(t.Context(), "acc-1", dr, ref)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domainbooking.ErrDateConflict)
		}
	}
	assert.Equal(t, 1, winners)
}
