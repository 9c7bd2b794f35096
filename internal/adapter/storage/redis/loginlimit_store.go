package redis

import (
	"context"
	"fmt"
	"time"

	"mybank-ledger/pkg/apperror"

	goredis "github.com/redis/go-redis/v9"
)

// LoginLimitStore implements ports.LoginLimiter backed by Redis, for
// deployments running more than one service instance. The counter key
// expires with the window, so the window is anchored at the first recorded
// attempt for the identifier.
type LoginLimitStore struct {
	client      *goredis.Client
	prefix      string
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimitStore creates a Redis-backed login limiter.
func NewLoginLimitStore(client *goredis.Client, maxAttempts int, window time.Duration) *LoginLimitStore {
	return &LoginLimitStore{
		client:      client,
		prefix:      "loginlimit:",
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

// Check records a login attempt for the identifier and fails once the count
// inside the current window exceeds the maximum. The counter is incremented
// on every attempt, as in the original throttle.
func (s *LoginLimitStore) Check(ctx context.Context, identifier string) error {
	key := s.prefix + identifier

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis login limit incr: %w", err)
	}

	// First attempt opens the window.
	if count == 1 {
		s.client.Expire(ctx, key, s.window)
	}

	if count > s.maxAttempts {
		return apperror.ErrTooManyAttempts()
	}
	return nil
}

// Reset clears the counter after a successful authentication.
func (s *LoginLimitStore) Reset(ctx context.Context, identifier string) error {
	if err := s.client.Del(ctx, s.prefix+identifier).Err(); err != nil {
		return fmt.Errorf("redis login limit del: %w", err)
	}
	return nil
}
