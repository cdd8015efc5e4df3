package memory

import (
	"context"
	"sync"

	appoutbox "staybook/internal/app/outbox"
)

// Outbox keeps staged event records in memory until flushed. Useful for
// tests and broker-less local runs.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
	flushed []appoutbox.EventRecord
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.flushed = append(o.flushed, o.records...)
	o.records = nil
	return nil
}

// Flushed exposes published records for test assertions.
func (o *Outbox) Flushed() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]appoutbox.EventRecord, len(o.flushed))
	copy(out, o.flushed)
	return out
}

var _ appoutbox.Outbox = (*Outbox)(nil)
