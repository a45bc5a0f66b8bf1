package redis

import (
	"context"
	"testing"
	"time"
)

func TestBookingDedup_MissThenHit(t *testing.T) {
	_, client := newTestRedis(t)
	dedup := NewBookingDedup(client)
	ctx := context.Background()

	if _, ok, err := dedup.SeenKey(ctx, "key-1"); err != nil || ok {
		t.Fatalf("unseen key reported as seen (ok=%v, err=%v)", ok, err)
	}

	if err := dedup.MarkKey(ctx, "key-1", "appt-1"); err != nil {
		t.Fatalf("MarkKey returned error: %v", err)
	}

	id, ok, err := dedup.SeenKey(ctx, "key-1")
	if err != nil {
		t.Fatalf("SeenKey returned error: %v", err)
	}
	if !ok || id != "appt-1" {
		t.Fatalf("SeenKey = (%q, %v), want (appt-1, true)", id, ok)
	}
}

func TestBookingDedup_KeysAreIndependent(t *testing.T) {
	_, client := newTestRedis(t)
	dedup := NewBookingDedup(client)
	ctx := context.Background()

	if err := dedup.MarkKey(ctx, "key-1", "appt-1"); err != nil {
		t.Fatalf("MarkKey returned error: %v", err)
	}
	if _, ok, err := dedup.SeenKey(ctx, "key-2"); err != nil || ok {
		t.Fatalf("different key reported as seen (ok=%v, err=%v)", ok, err)
	}
}

func TestBookingDedup_EntriesExpire(t *testing.T) {
	mr, client := newTestRedis(t)
	dedup := NewBookingDedup(client)
	ctx := context.Background()

	if err := dedup.MarkKey(ctx, "key-1", "appt-1"); err != nil {
		t.Fatalf("MarkKey returned error: %v", err)
	}
	mr.FastForward(bookingDedupTTL + time.Minute)

	// After expiry the durable unique index is the remaining guard.
	if _, ok, err := dedup.SeenKey(ctx, "key-1"); err != nil || ok {
		t.Fatalf("expired key reported as seen (ok=%v, err=%v)", ok, err)
	}
}
