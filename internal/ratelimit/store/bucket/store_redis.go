package bucket

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"comptepro/internal/ratelimit/models"
)

const redisKeyPrefix = "rl:win:"

// RedisStore implements Store with Redis fixed-window counters so multiple
// gateway instances share one budget per identifier. INCR is atomic, which
// closes the check-then-increment race without client-side locking.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed bucket store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Allow increments the window counter for key and reports whether the request
// fits the limit. The key's TTL doubles as the window boundary: the first hit
// sets it, expiry resets the count.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := time.Now()
	redisKey := redisKeyPrefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	count := int(incr.Val())
	resetAt := now.Add(window)
	if d := ttl.Val(); d > 0 {
		resetAt = now.Add(d)
	}

	if count > limit {
		return &models.RateLimitResult{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retryAfterSeconds(resetAt, now),
		}, nil
	}

	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - count,
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for a key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}
