package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const bookingDedupTTL = 24 * time.Hour

// BookingDedup caches idempotency keys so booking replays short-circuit
// before the datastore uniqueness path. Key format:
// booking:<idempotency_key> -> appointment id.
type BookingDedup struct {
	client *redis.Client
}

func NewBookingDedup(client *redis.Client) *BookingDedup {
	return &BookingDedup{client: client}
}

// SeenKey reports whether key already booked, and which appointment it
// produced.
func (d *BookingDedup) SeenKey(ctx context.Context, key string) (string, bool, error) {
	id, err := d.client.Get(ctx, d.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("booking dedup check: %w", err)
	}
	return id, true, nil
}

// MarkKey records a completed booking under its idempotency key. Entries
// expire after bookingDedupTTL; the sparse unique index on the collection
// remains the durable guard.
func (d *BookingDedup) MarkKey(ctx context.Context, key, appointmentID string) error {
	if err := d.client.Set(ctx, d.key(key), appointmentID, bookingDedupTTL).Err(); err != nil {
		return fmt.Errorf("booking dedup mark: %w", err)
	}
	return nil
}

func (d *BookingDedup) key(k string) string {
	return "booking:" + k
}
