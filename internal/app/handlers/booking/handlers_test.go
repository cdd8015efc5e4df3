package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	bookingapp "staybook/internal/app/handlers/booking"
	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainguest "staybook/internal/domain/guest"
	"staybook/internal/infra/storage/memory"
)

// testEnv wires the handlers onto the in-memory backend with a frozen
// clock and seeded accommodation and guest records.
type testEnv struct {
	factory        memory.Factory
	accommodations *memory.AccommodationRepository
	guests         *memory.GuestRepository
	bookings       *memory.BookingRepository
	outbox         *memory.Outbox
	now            time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		accommodations: memory.NewAccommodationRepository(),
		guests:         memory.NewGuestRepository(),
		bookings:       memory.NewBookingRepository(),
		outbox:         memory.NewOutbox(),
		now:            time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC),
	}
	env.factory = memory.Factory{
		AccommodationRepo: env.accommodations,
		GuestRepo:         env.guests,
		BookingRepo:       env.bookings,
		DetailRepo:        memory.NewDetailRepository(),
		CalendarStore:     memory.NewCalendar(),
	}
	env.accommodations.Put(domainaccommodation.Accommodation{
		ID:                "acc-1",
		Host:              "host-1",
		Name:              "Portside Loft",
		MaxGuestCapacity:  4,
		NightlyRateCents:  10000,
		Currency:          "USD",
		ApprovalStatus:    domainaccommodation.ApprovalApproved,
		OperationalStatus: domainaccommodation.OperationalActive,
	})
	env.accommodations.Put(domainaccommodation.Accommodation{
		ID:                "acc-pending",
		Host:              "host-1",
		Name:              "Garden Studio",
		MaxGuestCapacity:  2,
		NightlyRateCents:  9900,
		Currency:          "USD",
		ApprovalStatus:    domainaccommodation.ApprovalPending,
		OperationalStatus: domainaccommodation.OperationalActive,
	})
	env.guests.Put(domainguest.Guest{ID: "guest-1", Name: "Mika Tanaka", Email: "mika@example.com"})
	return env
}

func (env *testEnv) clock() time.Time { return env.now }

func (env *testEnv) createHandler() *bookingapp.CreateBookingHandler {
	return &bookingapp.CreateBookingHandler{
		UoWFactory: env.factory,
		Outbox:     env.outbox,
		Clock:      env.clock,
	}
}

func (env *testEnv) updateHandler() *bookingapp.UpdateBookingHandler {
	return &bookingapp.UpdateBookingHandler{
		UoWFactory: env.factory,
		Outbox:     env.outbox,
		Clock:      env.clock,
	}
}

func (env *testEnv) cancelHandler(policy domainbooking.CancellationPolicy) *bookingapp.CancelBookingHandler {
	return &bookingapp.CancelBookingHandler{
		UoWFactory: env.factory,
		Outbox:     env.outbox,
		Policy:     policy,
		Clock:      env.clock,
	}
}

func (env *testEnv) createCommand() bookingapp.CreateBookingCommand {
	return bookingapp.CreateBookingCommand{
		AccommodationID: "acc-1",
		GuestID:         "guest-1",
		CheckIn:         time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:        time.Date(2026, 7, 12, 0, 0, 0, 0, time.UTC),
		Guests:          2,
	}
}

func cancelCommand(id, guestID, hostID string) bookingapp.CancelBookingCommand {
	return bookingapp.CancelBookingCommand{
		BookingID:        id,
		RequesterGuestID: guestID,
		RequesterHostID:  hostID,
	}
}

func mustFindBooking(t *testing.T, env *testEnv, id string) *domainbooking.Booking {
	t.Helper()
	b, err := env.bookings.ByIDWithDetail(t.Context(), domainbooking.BookingID(id))
	require.NoError(t, err)
	return b
}
