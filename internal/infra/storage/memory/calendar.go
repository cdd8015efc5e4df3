package memory

import (
	"context"
	"sync"
	"time"

	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	"staybook/internal/domain/shared/daterange"
)

type nightKey struct {
	accommodation domainaccommodation.AccommodationID
	night         time.Time
}

// Calendar holds one cell per (accommodation, night). Reserve checks and
// claims the whole range under a single lock, which is what makes the
// check-and-reserve atomic for in-process callers.
type Calendar struct {
	mu    sync.Mutex
	cells map[nightKey]domainbooking.BookingID
}

func NewCalendar() *Calendar {
	return &Calendar{cells: make(map[nightKey]domainbooking.BookingID)}
}

func (c *Calendar) Reserve(ctx context.Context, id domainaccommodation.AccommodationID, dr daterange.DateRange, ref domainbooking.BookingID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	conflict := false
	dr.EachNight(func(night time.Time) {
		if holder, ok := c.cells[nightKey{accommodation: id, night: night}]; ok && holder != ref {
			conflict = true
		}
	})
	if conflict {
		return domainbooking.ErrDateConflict
	}
	dr.EachNight(func(night time.Time) {
		c.cells[nightKey{accommodation: id, night: night}] = ref
	})
	return nil
}

func (c *Calendar) Release(ctx context.Context, ref domainbooking.BookingID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, holder := range c.cells {
		if holder == ref {
			delete(c.cells, key)
		}
	}
	return nil
}

var _ domainbooking.Calendar = (*Calendar)(nil)
