// Package memory holds in-process implementations of ports backed by
// mutex-guarded maps. They are sound for a single service instance only; a
// multi-instance deployment needs the redis-backed equivalents.
package memory

import (
	"context"
	"sync"
	"time"

	"mybank-ledger/pkg/apperror"
)

type attemptWindow struct {
	attempts     int
	firstAttempt time.Time
}

// LoginLimiter implements ports.LoginLimiter with an in-process map. The
// window is anchored at the first recorded attempt; a window older than the
// configured duration restarts with the current attempt.
type LoginLimiter struct {
	mu          sync.Mutex
	entries     map[string]*attemptWindow
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// NewLoginLimiter creates an in-memory login limiter.
func NewLoginLimiter(maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		entries:     make(map[string]*attemptWindow),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// Check records a login attempt and fails once the count inside the current
// window exceeds the maximum.
func (l *LoginLimiter) Check(_ context.Context, identifier string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.entries[identifier]
	if !ok || now.Sub(w.firstAttempt) > l.window {
		l.entries[identifier] = &attemptWindow{attempts: 1, firstAttempt: now}
		return nil
	}

	w.attempts++
	if w.attempts > l.maxAttempts {
		return apperror.ErrTooManyAttempts()
	}
	return nil
}

// Reset clears the counter after a successful authentication.
func (l *LoginLimiter) Reset(_ context.Context, identifier string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, identifier)
	return nil
}
