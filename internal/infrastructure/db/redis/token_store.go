package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

const defaultRefreshTTL = 7 * 24 * time.Hour

// TokenStore holds opaque refresh tokens in Redis.
// Key format: refresh:<token> → user id.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore creates a TokenStore wrapping the given Redis client.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = defaultRefreshTTL
	}
	return &TokenStore{client: client, ttl: ttl}
}

// Save persists the token for its TTL.
func (s *TokenStore) Save(ctx context.Context, token, userID string) error {
	if err := s.client.Set(ctx, s.key(token), userID, s.ttl).Err(); err != nil {
		return fmt.Errorf("refresh token save: %w", err)
	}
	return nil
}

// Consume resolves and deletes the token in one round trip, so concurrent
// refresh attempts with the same token cannot both succeed.
func (s *TokenStore) Consume(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return "", domain.ErrRefreshTokenInvalid
	}
	if err != nil {
		return "", fmt.Errorf("refresh token consume: %w", err)
	}
	return userID, nil
}

// Revoke deletes the token. Revoking an unknown token is not an error.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("refresh token revoke: %w", err)
	}
	return nil
}

func (s *TokenStore) key(token string) string {
	return "refresh:" + token
}
