package bucket

import (
	"context"
	"sync"
	"time"

	"comptepro/internal/ratelimit/models"
)

// InMemoryStore implements Store with fixed-window counters. Suitable for a
// single instance; use RedisStore when running more than one.
type InMemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
}

// window is a fixed-window counter. The count resets once the window elapses;
// the check-and-increment under the store mutex keeps concurrent requests
// from both taking the last slot.
type window struct {
	count   int
	startAt time.Time
}

// NewInMemoryStore creates a new in-memory bucket store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{windows: make(map[string]*window)}
}

// Allow checks whether key may make another request within the current window
// and increments the counter if so.
func (s *InMemoryStore) Allow(ctx context.Context, key string, limit int, windowDur time.Duration) (*models.RateLimitResult, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.windows[key]
	if w == nil || now.Sub(w.startAt) >= windowDur {
		// Stale windows are overwritten on the next hit.
		w = &window{startAt: now}
		s.windows[key] = w
	}

	resetAt := w.startAt.Add(windowDur)

	if w.count >= limit {
		return &models.RateLimitResult{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(resetAt, now),
		}, nil
	}

	w.count++
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - w.count,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for a key.
func (s *InMemoryStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}

// Sweep drops windows that expired before the cutoff, bounding memory growth
// from one-off identifiers. Main runs it on a ticker.
func (s *InMemoryStore) Sweep(windowDur time.Duration) int {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if now.Sub(w.startAt) >= windowDur {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of identifier windows currently held. Main publishes
// it as a gauge after each sweep.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func retryAfterSeconds(resetAt, now time.Time) int {
	secs := int(resetAt.Sub(now).Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}
