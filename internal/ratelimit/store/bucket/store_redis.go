package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"locreg/internal/ratelimit/models"
	"locreg/pkg/requestcontext"
)

// RedisBucketStore shares fixed windows across replicas. Each window is one
// counter key that expires with the window.
type RedisBucketStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedis(client redis.Cmdable) *RedisBucketStore {
	return &RedisBucketStore{client: client, prefix: "locreg:ratelimit:"}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN counts every attempt, rejected ones included, so a caller hammering
// a full window keeps it full until it rolls over.
func (s *RedisBucketStore) AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.RateLimitResult, error) {
	if err := validate(key, cost, limit, window); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	start := now.Truncate(window)
	resetAt := start.Add(window)
	counterKey := fmt.Sprintf("%s%s:%d", s.prefix, key, start.Unix())

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.IncrBy(ctx, counterKey, int64(cost))
		pipe.ExpireAt(ctx, counterKey, resetAt)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("increment rate limit counter: %w", err)
	}

	used := int(incr.Val())
	allowed := used <= limit
	remaining := max(limit-used, 0)

	return &models.RateLimitResult{
		Allowed:    allowed,
		Limit:      limit,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: retryAfterSeconds(allowed, resetAt, now),
	}, nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	iter := s.client.Scan(ctx, 0, s.prefix+key+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("reset rate limit counter: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan rate limit counters: %w", err)
	}
	return nil
}
