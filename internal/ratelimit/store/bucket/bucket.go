// Package bucket stores per-caller request counters for rate limiting.
package bucket

import (
	"fmt"
	"time"
)

func validate(key string, cost, limit int, window time.Duration) error {
	if key == "" {
		return fmt.Errorf("rate limit key is required")
	}
	if limit <= 0 || cost <= 0 {
		return fmt.Errorf("rate limit cost and limit must be positive")
	}
	if window <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	return nil
}

// retryAfterSeconds rounds up so a client waiting that long is admitted.
func retryAfterSeconds(allowed bool, resetAt, now time.Time) int {
	if allowed {
		return 0
	}
	wait := resetAt.Sub(now)
	if wait <= 0 {
		return 0
	}
	return int((wait + time.Second - 1) / time.Second)
}
