package kafka

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	appoutbox "staybook/internal/app/outbox"
)

// Outbox stages event records in memory for the life of a request and
// publishes them after the unit of work commits. Topic names derive from
// the event name: "booking.created" lands on "<prefix>booking".
type Outbox struct {
	producer    *Producer
	topicPrefix string
	logger      *slog.Logger

	mu      sync.Mutex
	records []appoutbox.EventRecord
}

func NewOutbox(producer *Producer, topicPrefix string, logger *slog.Logger) *Outbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Outbox{producer: producer, topicPrefix: topicPrefix, logger: logger}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	staged := o.records
	o.records = nil
	o.mu.Unlock()

	for _, rec := range staged {
		headers := map[string]string{"event_id": rec.ID, "event_name": rec.Name}
		for k, v := range rec.Headers {
			headers[k] = v
		}
		if err := o.producer.Publish(ctx, o.topicFor(rec.Name), rec.Aggregate, rec.Payload, headers); err != nil {
			o.logger.Error("event publish failed", "event", rec.Name, "aggregate", rec.Aggregate, "error", err)
			return err
		}
	}
	return nil
}

func (o *Outbox) topicFor(eventName string) string {
	topic := eventName
	if i := strings.IndexByte(eventName, '.'); i > 0 {
		topic = eventName[:i]
	}
	return o.topicPrefix + topic
}

var _ appoutbox.Outbox = (*Outbox)(nil)
