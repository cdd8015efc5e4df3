package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"staybook/internal/app/middleware"
)

const keyPrefix = "staybook:idempotency:"

// IdempotencyStore keeps command outcomes in redis with a TTL, so retries
// of the same key replay the original result across process restarts.
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

type storedRecord struct {
	Payload    []byte    `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return middleware.IdempotencyRecord{}, false, nil
		}
		return middleware.IdempotencyRecord{}, false, err
	}
	var rec storedRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return middleware.IdempotencyRecord{}, false, err
	}
	return middleware.IdempotencyRecord{
		Key:        key,
		Payload:    rec.Payload,
		OccurredAt: rec.OccurredAt,
	}, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	raw, err := json.Marshal(storedRecord{
		Payload:    rec.Payload,
		OccurredAt: rec.OccurredAt,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+rec.Key, raw, s.ttl).Err()
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
