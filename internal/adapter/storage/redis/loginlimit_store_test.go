package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mybank-ledger/internal/adapter/storage/redis"
	"mybank-ledger/pkg/apperror"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T, maxAttempts int, window time.Duration) (*redis.LoginLimitStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis.NewLoginLimitStore(client, maxAttempts, window), mr
}

func TestLoginLimitStore_SixthAttemptBlocked(t *testing.T) {
	store, _ := setupLimiter(t, 5, 15*time.Minute)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		assert.NoError(t, store.Check(ctx, "u@example.com"), "attempt %d should be permitted", i)
	}

	err := store.Check(ctx, "u@example.com")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "RATE_001", appErr.Code)
}

func TestLoginLimitStore_IdentifiersIndependent(t *testing.T) {
	store, _ := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Check(ctx, "a@example.com"))
	require.Error(t, store.Check(ctx, "a@example.com"))

	assert.NoError(t, store.Check(ctx, "b@example.com"))
}

func TestLoginLimitStore_ResetClearsCounter(t *testing.T) {
	store, _ := setupLimiter(t, 2, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Check(ctx, "u@example.com"))
	require.NoError(t, store.Check(ctx, "u@example.com"))
	require.Error(t, store.Check(ctx, "u@example.com"))

	require.NoError(t, store.Reset(ctx, "u@example.com"))

	assert.NoError(t, store.Check(ctx, "u@example.com"), "counter starts over after reset")
}

func TestLoginLimitStore_WindowExpires(t *testing.T) {
	store, mr := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Check(ctx, "u@example.com"))
	require.Error(t, store.Check(ctx, "u@example.com"))

	mr.FastForward(61 * time.Second)

	assert.NoError(t, store.Check(ctx, "u@example.com"), "a fresh window opens after expiry")
}
