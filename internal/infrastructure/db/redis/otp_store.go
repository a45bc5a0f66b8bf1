package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petvax/vaccination-system/internal/core/domain"
)

const (
	defaultOTPTTL      = 5 * time.Minute
	defaultMaxAttempts = 5
)

// OTPStore holds pending one-time codes in Redis.
// Key format: otp:<email> for the code, otp:<email>:attempts for failures.
type OTPStore struct {
	client      *redis.Client
	ttl         time.Duration
	maxAttempts int
}

// NewOTPStore creates an OTPStore wrapping the given Redis client.
func NewOTPStore(client *redis.Client, ttl time.Duration, maxAttempts int) *OTPStore {
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &OTPStore{client: client, ttl: ttl, maxAttempts: maxAttempts}
}

// Save persists the code for the email, replacing any prior code and
// resetting the attempt counter.
func (s *OTPStore) Save(ctx context.Context, email, code string) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(email), code, s.ttl)
	pipe.Del(ctx, s.attemptsKey(email))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("otp save: %w", err)
	}
	return nil
}

// Verify consumes the code. A successful check deletes it; a failed check
// increments the attempt counter and, once the cap is reached, deletes the
// code so a brute-forced value can never succeed.
func (s *OTPStore) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, s.key(email)).Result()
	if err == redis.Nil {
		return domain.ErrOTPInvalid
	}
	if err != nil {
		return fmt.Errorf("otp lookup: %w", err)
	}

	if stored != code {
		attempts, err := s.client.Incr(ctx, s.attemptsKey(email)).Result()
		if err != nil {
			return fmt.Errorf("otp attempts: %w", err)
		}
		s.client.Expire(ctx, s.attemptsKey(email), s.ttl)
		if attempts >= int64(s.maxAttempts) {
			s.client.Del(ctx, s.key(email), s.attemptsKey(email))
			return domain.ErrOTPAttemptsExceeded
		}
		return domain.ErrOTPInvalid
	}

	s.client.Del(ctx, s.key(email), s.attemptsKey(email))
	return nil
}

func (s *OTPStore) key(email string) string {
	return "otp:" + email
}

func (s *OTPStore) attemptsKey(email string) string {
	return "otp:" + email + ":attempts"
}
