package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainguest "staybook/internal/domain/guest"
	"staybook/internal/domain/shared/daterange"
)

// ErrConcurrentUpdate is returned when a stale booking version is saved.
var ErrConcurrentUpdate = errors.New("memory: concurrent update detected")

// AccommodationRepository keeps listing snapshots in memory. The catalog
// service owns the real data; this store is fed by fixtures or tests.
type AccommodationRepository struct {
	mu    sync.RWMutex
	items map[domainaccommodation.AccommodationID]domainaccommodation.Accommodation
}

func NewAccommodationRepository() *AccommodationRepository {
	return &AccommodationRepository{items: make(map[domainaccommodation.AccommodationID]domainaccommodation.Accommodation)}
}

func (r *AccommodationRepository) Put(acc domainaccommodation.Accommodation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[acc.ID] = acc
}

func (r *AccommodationRepository) ByID(ctx context.Context, id domainaccommodation.AccommodationID) (*domainaccommodation.Accommodation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.items[id]
	if !ok {
		return nil, domainaccommodation.ErrNotFound
	}
	return &acc, nil
}

func (r *AccommodationRepository) ExistsByID(ctx context.Context, id domainaccommodation.AccommodationID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[id]
	return ok, nil
}

// GuestRepository keeps account snapshots in memory.
type GuestRepository struct {
	mu    sync.RWMutex
	items map[domainguest.GuestID]domainguest.Guest
}

func NewGuestRepository() *GuestRepository {
	return &GuestRepository{items: make(map[domainguest.GuestID]domainguest.Guest)}
}

func (r *GuestRepository) Put(g domainguest.Guest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[g.ID] = g
}

func (r *GuestRepository) ByID(ctx context.Context, id domainguest.GuestID) (*domainguest.Guest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.items[id]
	if !ok {
		return nil, domainguest.ErrNotFound
	}
	return &g, nil
}

func (r *GuestRepository) ExistsByID(ctx context.Context, id domainguest.GuestID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[id]
	return ok, nil
}

// BookingRepository stores bookings with optimistic versioning.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[b.ID]; ok && existing.Version != b.Version {
		return ErrConcurrentUpdate
	}
	b.Version++
	r.items[b.ID] = cloneBooking(b)
	return nil
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	clone := cloneBooking(b)
	clone.Detail = nil
	return clone, nil
}

func (r *BookingRepository) ByIDWithDetail(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, id domainguest.GuestID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.GuestID == id {
			out = append(out, cloneBooking(b))
		}
	}
	sortByCreation(out)
	return out, nil
}

func (r *BookingRepository) ListByAccommodation(ctx context.Context, id domainaccommodation.AccommodationID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.AccommodationID == id {
			out = append(out, cloneBooking(b))
		}
	}
	sortByCreation(out)
	return out, nil
}

func (r *BookingRepository) IsOverlapping(ctx context.Context, id domainaccommodation.AccommodationID, dr daterange.DateRange) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.items {
		if b.AccommodationID != id || b.State == domainbooking.StateCancelled {
			continue
		}
		if b.Detail != nil && b.Detail.Range.Overlaps(dr) {
			return true, nil
		}
	}
	return false, nil
}

// DetailRepository stores detail records keyed by booking.
type DetailRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Detail
}

func NewDetailRepository() *DetailRepository {
	return &DetailRepository{items: make(map[domainbooking.BookingID]*domainbooking.Detail)}
}

func (r *DetailRepository) Save(ctx context.Context, d *domainbooking.Detail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *d
	clone.Services = append([]string(nil), d.Services...)
	r.items[d.BookingID] = &clone
	return nil
}

func (r *DetailRepository) ByBooking(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	clone := *d
	clone.Services = append([]string(nil), d.Services...)
	return &clone, nil
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	clone := *b
	clone.ClearEvents()
	if b.Detail != nil {
		detail := *b.Detail
		detail.Services = append([]string(nil), b.Detail.Services...)
		clone.Detail = &detail
	}
	return &clone
}

func sortByCreation(bookings []*domainbooking.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
}
