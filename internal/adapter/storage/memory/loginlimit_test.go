package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mybank-ledger/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginLimiter_FiveAllowedSixthBlocked(t *testing.T) {
	l := NewLoginLimiter(5, 15*time.Minute)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		assert.NoError(t, l.Check(ctx, "u@example.com"), "attempt %d", i)
	}

	err := l.Check(ctx, "u@example.com")
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "RATE_001", appErr.Code)
}

func TestLoginLimiter_ResetOnSuccess(t *testing.T) {
	l := NewLoginLimiter(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Check(ctx, "u@example.com"))
	require.NoError(t, l.Check(ctx, "u@example.com"))
	require.Error(t, l.Check(ctx, "u@example.com"))

	require.NoError(t, l.Reset(ctx, "u@example.com"))
	assert.NoError(t, l.Check(ctx, "u@example.com"))
}

func TestLoginLimiter_WindowRestarts(t *testing.T) {
	l := NewLoginLimiter(1, 15*time.Minute)
	current := time.Now()
	l.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, l.Check(ctx, "u@example.com"))
	require.Error(t, l.Check(ctx, "u@example.com"))

	current = current.Add(16 * time.Minute)
	assert.NoError(t, l.Check(ctx, "u@example.com"), "expired window restarts at one attempt")
}

func TestLoginLimiter_IdentifiersIndependent(t *testing.T) {
	l := NewLoginLimiter(1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Check(ctx, "a@example.com"))
	require.Error(t, l.Check(ctx, "a@example.com"))
	assert.NoError(t, l.Check(ctx, "b@example.com"))
}

func TestLoginLimiter_ConcurrentAccess(t *testing.T) {
	l := NewLoginLimiter(1000, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Check(ctx, "shared")
		}()
	}
	wg.Wait()

	// 100 attempts recorded, all below the ceiling.
	assert.NoError(t, l.Check(ctx, "shared"))
}
