package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

func TestTokenStore_SaveAndConsume(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewTokenStore(client, time.Hour)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "user-1"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	userID, err := store.Consume(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Consume returned error: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("Consume = %q, want user-1", userID)
	}

	// Single use: a second consume fails.
	if _, err := store.Consume(ctx, "tok-1"); !errors.Is(err, domain.ErrRefreshTokenInvalid) {
		t.Fatalf("expected ErrRefreshTokenInvalid on reuse, got %v", err)
	}
}

func TestTokenStore_ConsumeUnknownToken(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewTokenStore(client, time.Hour)

	if _, err := store.Consume(context.Background(), "nope"); !errors.Is(err, domain.ErrRefreshTokenInvalid) {
		t.Fatalf("expected ErrRefreshTokenInvalid, got %v", err)
	}
}

func TestTokenStore_Revoke(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewTokenStore(client, time.Hour)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "user-1"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Revoke(ctx, "tok-1"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if _, err := store.Consume(ctx, "tok-1"); !errors.Is(err, domain.ErrRefreshTokenInvalid) {
		t.Fatalf("expected ErrRefreshTokenInvalid after revoke, got %v", err)
	}

	// Revoking an unknown token is a no-op.
	if err := store.Revoke(ctx, "never-existed"); err != nil {
		t.Fatalf("Revoke of unknown token returned error: %v", err)
	}
}

func TestTokenStore_Expiry(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewTokenStore(client, time.Minute)
	ctx := context.Background()

	if err := store.Save(ctx, "tok-1", "user-1"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := store.Consume(ctx, "tok-1"); !errors.Is(err, domain.ErrRefreshTokenInvalid) {
		t.Fatalf("expected ErrRefreshTokenInvalid after expiry, got %v", err)
	}
}
