package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweep stale entries roughly once per this many checks
const sweepInterval = 1024

// MemoryLimiter keeps per-key request timestamps in process memory. It
// is the backend used when Redis is disabled.
type MemoryLimiter struct {
	mu     sync.Mutex
	keys   map[string][]time.Time
	checks int
}

var _ Limiter = (*MemoryLimiter)(nil)

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{keys: make(map[string][]time.Time)}
}

// Check enforces a sliding-window limit for the provided key.
func (m *MemoryLimiter) Check(_ context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.checks++
	if m.checks%sweepInterval == 0 {
		m.sweepLocked(windowStart)
	}

	recent := pruneBefore(m.keys[key], windowStart)

	allowed := len(recent) < limit
	if allowed {
		recent = append(recent, now)
	}
	m.keys[key] = recent

	remaining := limit - len(recent)
	if remaining < 0 {
		remaining = 0
	}

	// A slot frees up when the oldest retained request leaves the window.
	resetAt := now.Add(window)
	if len(recent) > 0 {
		resetAt = recent[0].Add(window)
	}

	result := &Result{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   resetAt,
	}

	if !allowed {
		return result, ErrLimitExceeded
	}

	return result, nil
}

func (m *MemoryLimiter) sweepLocked(windowStart time.Time) {
	for key, stamps := range m.keys {
		if len(stamps) == 0 || stamps[len(stamps)-1].Before(windowStart) {
			delete(m.keys, key)
		}
	}
}

func pruneBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && stamps[i].Before(cutoff) {
		i++
	}

	return stamps[i:]
}
