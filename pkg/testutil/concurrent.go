package testutil

import (
	"errors"
	"sync"

	"locreg/internal/sentinel"
	dErrors "locreg/pkg/domain-errors"
)

// Tally counts the outcomes of a RunConcurrent batch.
type Tally struct {
	Successes int
	Conflicts int
	NotFounds int
	Errors    int
}

func (t Tally) Total() int {
	return t.Successes + t.Conflicts + t.NotFounds + t.Errors
}

// RunConcurrent starts n goroutines, releases them together and classifies
// each result. Conflict and not-found are recognized both as domain codes and
// as store sentinels.
func RunConcurrent(n int, fn func(i int) error) Tally {
	var t Tally
	for _, err := range race(n, fn) {
		switch {
		case err == nil:
			t.Successes++
		case isConflict(err):
			t.Conflicts++
		case isNotFound(err):
			t.NotFounds++
		default:
			t.Errors++
		}
	}
	return t
}

// RunConcurrentCollect is RunConcurrent for callers that inspect each
// failure. errs holds only the non-nil results.
func RunConcurrentCollect(n int, fn func(i int) error) (wins int, errs []error) {
	for _, err := range race(n, fn) {
		if err == nil {
			wins++
			continue
		}
		errs = append(errs, err)
	}
	return wins, errs
}

// race runs fn(0..n-1) behind a start barrier and returns results by index.
func race(n int, fn func(i int) error) []error {
	results := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			<-start
			results[i] = fn(i)
		}()
	}
	close(start)
	wg.Wait()
	return results
}

func isConflict(err error) bool {
	return dErrors.HasCode(err, dErrors.CodeConflict) ||
		errors.Is(err, sentinel.ErrConflict) ||
		errors.Is(err, sentinel.ErrDuplicateKey)
}

func isNotFound(err error) bool {
	return dErrors.HasCode(err, dErrors.CodeNotFound) || errors.Is(err, sentinel.ErrNotFound)
}
