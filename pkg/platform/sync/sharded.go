// Package sync provides striped locks for serializing work on a set of keys.
package sync

import (
	"hash/maphash"
	"slices"
	"sync"
)

// DefaultStripes is the stripe count NewStriped uses for n <= 0.
const DefaultStripes = 64

// Striped maps keys onto a fixed set of mutexes. Distinct keys may share a
// stripe; the same key always lands on the same one within a process.
type Striped struct {
	seed    maphash.Seed
	stripes []sync.Mutex
}

func NewStriped(n int) *Striped {
	if n <= 0 {
		n = DefaultStripes
	}
	return &Striped{seed: maphash.MakeSeed(), stripes: make([]sync.Mutex, n)}
}

// Acquire locks every stripe covering keys and returns the release func.
// Stripes are taken once each in ascending order, so callers with
// overlapping key sets cannot deadlock.
func (s *Striped) Acquire(keys ...string) (release func()) {
	idx := s.stripesFor(keys)
	for _, i := range idx {
		s.stripes[i].Lock()
	}
	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			s.stripes[idx[j]].Unlock()
		}
	}
}

func (s *Striped) stripesFor(keys []string) []int {
	idx := make([]int, len(keys))
	for i, k := range keys {
		idx[i] = s.stripe(k)
	}
	slices.Sort(idx)
	return slices.Compact(idx)
}

func (s *Striped) stripe(key string) int {
	return int(maphash.String(s.seed, key) % uint64(len(s.stripes)))
}
