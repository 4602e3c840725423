package chain

import (
	"context"
	"log/slog"
	"sync/atomic"

	id "locreg/pkg/domain"
	"locreg/pkg/platform/circuit"
)

// Clock is satisfied by every clock in this package.
type Clock interface {
	CurrentBlock(ctx context.Context) (id.BlockNumber, error)
}

// BreakerClock reads from primary and switches to fallback while the
// breaker is open. Successes keep probing primary so it can close again.
// Reported heights never decrease: a reading below the highest height
// already served is raised to it.
type BreakerClock struct {
	primary  Clock
	fallback Clock
	breaker  *circuit.Breaker
	logger   *slog.Logger
	highest  atomic.Uint64
}

func NewBreakerClock(primary, fallback Clock, breaker *circuit.Breaker, logger *slog.Logger) *BreakerClock {
	return &BreakerClock{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (c *BreakerClock) CurrentBlock(ctx context.Context) (id.BlockNumber, error) {
	height, err := c.primary.CurrentBlock(ctx)
	usePrimary, flipped := c.breaker.Observe(err)
	if flipped {
		if c.breaker.IsOpen() {
			c.logger.WarnContext(ctx, "block clock circuit opened", "breaker", c.breaker.Name(), "error", err)
		} else {
			c.logger.InfoContext(ctx, "block clock circuit closed", "breaker", c.breaker.Name())
		}
	}
	switch {
	case usePrimary:
		return c.atLeastHighest(height), nil
	case err != nil && !c.breaker.IsOpen():
		return 0, err
	}

	height, err = c.fallback.CurrentBlock(ctx)
	if err != nil {
		return 0, err
	}
	return c.atLeastHighest(height), nil
}

// atLeastHighest records height as the high-water mark when it is one and
// returns the mark.
func (c *BreakerClock) atLeastHighest(height id.BlockNumber) id.BlockNumber {
	for {
		seen := c.highest.Load()
		if uint64(height) <= seen {
			return id.BlockNumber(seen)
		}
		if c.highest.CompareAndSwap(seen, uint64(height)) {
			return height
		}
	}
}
