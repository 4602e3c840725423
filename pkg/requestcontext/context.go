// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values set by middleware and read by handlers and services.
package requestcontext

import (
	"context"
	"time"

	id "locreg/pkg/domain"
)

type (
	requestIDKey struct{}
	callerKey    struct{}
	clientIPKey  struct{}
	timeKey      struct{}
	clientKey    struct{}
)

// RequestID retrieves the request ID, or "" if not set.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Caller retrieves the authenticated caller account, or "" if not set.
func Caller(ctx context.Context) id.AccountID {
	if v, ok := ctx.Value(callerKey{}).(id.AccountID); ok {
		return v
	}
	return ""
}

func WithCaller(ctx context.Context, caller id.AccountID) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// ClientIP retrieves the client address recorded by middleware.
func ClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey{}).(string); ok {
		return v
	}
	return ""
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// Time returns the request-scoped "now" captured by middleware, if any.
func Time(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(timeKey{}).(time.Time)
	return t, ok
}

// Now returns the request-scoped time, falling back to time.Now for
// workers, CLIs and tests that run outside the HTTP chain.
func Now(ctx context.Context) time.Time {
	if t, ok := Time(ctx); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, timeKey{}, t)
}

// Client retrieves the client label derived from the User-Agent, or "".
func Client(ctx context.Context) string {
	if v, ok := ctx.Value(clientKey{}).(string); ok {
		return v
	}
	return ""
}

func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}
