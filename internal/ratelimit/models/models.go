// Package models holds the rate limiting vocabulary shared by the bucket
// stores and the HTTP middleware.
package models

import (
	"fmt"
	"time"
)

// EndpointClass groups routes that share one request budget.
type EndpointClass string

const (
	// ClassRead covers LOC and collection queries.
	ClassRead EndpointClass = "read"
	// ClassWrite covers every LOC mutation.
	ClassWrite EndpointClass = "write"
)

func (c EndpointClass) IsValid() bool {
	return c == ClassRead || c == ClassWrite
}

func (c EndpointClass) String() string {
	return string(c)
}

// Limit is a request budget per fixed window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Validate rejects budgets the stores cannot enforce.
func (l Limit) Validate() error {
	if l.Requests <= 0 {
		return fmt.Errorf("rate limit requests must be positive")
	}
	if l.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	return nil
}

// Limits maps each endpoint class to its budget.
type Limits map[EndpointClass]Limit

// DefaultLimits are applied per caller when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		ClassRead:  {Requests: 300, Window: time.Minute},
		ClassWrite: {Requests: 60, Window: time.Minute},
	}
}

type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"error_description"`
	RetryAfter int    `json:"retry_after"`
}
