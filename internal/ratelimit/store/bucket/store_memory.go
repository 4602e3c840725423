package bucket

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"locreg/internal/ratelimit/models"
	"locreg/pkg/requestcontext"
)

// DefaultMemoryKeys bounds how many callers the in-memory store tracks.
const DefaultMemoryKeys = 100_000

// MemoryStore keeps aligned fixed windows in a bounded LRU, so the least
// recently seen callers are forgotten under pressure. Counts are per process;
// RedisBucketStore shares them across replicas.
type MemoryStore struct {
	mu      sync.Mutex
	windows *lru.Cache[string, *fixedWindow]
}

type fixedWindow struct {
	start time.Time
	used  int
}

// NewMemory tracks up to capacity keys; capacity <= 0 uses DefaultMemoryKeys.
func NewMemory(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryKeys
	}
	windows, err := lru.New[string, *fixedWindow](capacity)
	if err != nil {
		panic(fmt.Sprintf("bucket: lru with capacity %d: %v", capacity, err))
	}
	return &MemoryStore{windows: windows}
}

func (s *MemoryStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	return s.AllowN(ctx, key, 1, limit, window)
}

// AllowN spends cost from key's current window. Only admitted hits are
// counted. The instant comes from the request context.
func (s *MemoryStore) AllowN(ctx context.Context, key string, cost, limit int, window time.Duration) (*models.RateLimitResult, error) {
	if err := validate(key, cost, limit, window); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	start := now.Truncate(window)
	resetAt := start.Add(window)

	s.mu.Lock()
	w, ok := s.windows.Get(key)
	if !ok || !w.start.Equal(start) {
		w = &fixedWindow{start: start}
		s.windows.Add(key, w)
	}
	allowed := w.used+cost <= limit
	if allowed {
		w.used += cost
	}
	remaining := limit - w.used
	s.mu.Unlock()

	return &models.RateLimitResult{
		Allowed:    allowed,
		Limit:      limit,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: retryAfterSeconds(allowed, resetAt, now),
	}, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows.Remove(key)
	return nil
}

// Count returns the hits spent in key's window at the context instant.
func (s *MemoryStore) Count(ctx context.Context, key string, window time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows.Peek(key)
	if !ok || !w.start.Equal(requestcontext.Now(ctx).Truncate(window)) {
		return 0
	}
	return w.used
}
