// Package circuit is a consecutive-count circuit breaker for dependencies
// that have a usable fallback, such as the Redis-backed block clock.
package circuit

import "sync"

// Breaker trips after a run of failures and recovers after a run of
// successes. While tripped the primary is still called so recovery can be
// observed, but its results are not used.
type Breaker struct {
	name      string
	tripAt    int
	recoverAt int

	mu     sync.Mutex
	open   bool
	streak int
}

type Option func(*Breaker)

// TripAfter sets how many consecutive failures open the breaker. Default 5.
func TripAfter(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.tripAt = n
		}
	}
}

// RecoverAfter sets how many consecutive successes close it again. Default 3.
func RecoverAfter(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.recoverAt = n
		}
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{name: name, tripAt: 5, recoverAt: 3}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// Observe records one primary call. usePrimary reports whether that call's
// result may be returned; flipped reports that this call changed the state.
func (b *Breaker) Observe(err error) (usePrimary, flipped bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	failed := err != nil
	// streak counts failures while closed and successes while open.
	if failed == !b.open {
		b.streak++
	} else {
		b.streak = 0
	}

	switch {
	case !b.open && b.streak >= b.tripAt:
		b.open, b.streak, flipped = true, 0, true
	case b.open && b.streak >= b.recoverAt:
		b.open, b.streak, flipped = false, 0, true
	}
	return !failed && !b.open, flipped
}

func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open, b.streak = false, 0
}
