// Package chain supplies the current block height used for collection
// deadlines. The registry never talks to a node itself: the height is derived
// from elapsed time, read from Redis where an indexer publishes it, or set
// by hand in tests.
package chain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	id "locreg/pkg/domain"
)

// IntervalClock derives the height from wall time: genesis at start, one
// block per interval after that.
type IntervalClock struct {
	genesis  id.BlockNumber
	start    time.Time
	interval time.Duration
	now      func() time.Time
}

func NewIntervalClock(genesis id.BlockNumber, start time.Time, interval time.Duration) *IntervalClock {
	return &IntervalClock{genesis: genesis, start: start, interval: interval, now: time.Now}
}

func (c *IntervalClock) CurrentBlock(context.Context) (id.BlockNumber, error) {
	elapsed := c.now().Sub(c.start)
	if elapsed <= 0 || c.interval <= 0 {
		return c.genesis, nil
	}
	return c.genesis + id.BlockNumber(elapsed/c.interval), nil // #nosec G115 -- elapsed is positive
}

// ErrHeightUnset is returned by RedisClock while nothing has been published
// under its key.
var ErrHeightUnset = errors.New("block height not published")

// RedisClock reads the height an indexer stores under key.
type RedisClock struct {
	client redis.Cmdable
	key    string
}

func NewRedisClock(client redis.Cmdable, key string) *RedisClock {
	return &RedisClock{client: client, key: key}
}

func (c *RedisClock) CurrentBlock(ctx context.Context) (id.BlockNumber, error) {
	raw, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("read current block %s: %w", c.key, ErrHeightUnset)
	}
	if err != nil {
		return 0, fmt.Errorf("read current block: %w", err)
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse current block %q: %w", raw, err)
	}
	return id.BlockNumber(n), nil
}

// Publish stores height under the clock's key. Used by tooling and tests.
func (c *RedisClock) Publish(ctx context.Context, height id.BlockNumber) error {
	return c.client.Set(ctx, c.key, strconv.FormatUint(uint64(height), 10), 0).Err()
}

// ManualClock is moved explicitly.
type ManualClock struct {
	mu     sync.Mutex
	height id.BlockNumber
}

func NewManualClock(height id.BlockNumber) *ManualClock {
	return &ManualClock{height: height}
}

func (c *ManualClock) CurrentBlock(context.Context) (id.BlockNumber, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height, nil
}

func (c *ManualClock) Set(height id.BlockNumber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height = height
}

func (c *ManualClock) Advance(blocks id.BlockNumber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += blocks
}

// Publish sets the height. It lets the admin API drive a manual clock the
// same way it drives a Redis one.
func (c *ManualClock) Publish(_ context.Context, height id.BlockNumber) error {
	c.Set(height)
	return nil
}
