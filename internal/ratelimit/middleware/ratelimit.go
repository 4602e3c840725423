// Package middleware enforces per-caller request budgets on the LOC routes.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"locreg/internal/ratelimit/models"
	"locreg/pkg/platform/httputil"
	"locreg/pkg/requestcontext"
)

// BucketStore consumes hits from a named counter.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Metrics struct {
	rejected    *prometheus.CounterVec
	storeErrors prometheus.Counter
}

func NewMetrics() *Metrics {
	return NewMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func NewMetricsWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "locreg_ratelimit_rejected_total",
			Help: "Requests rejected because the caller exhausted its budget",
		}, []string{"class"}),
		storeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "locreg_ratelimit_store_errors_total",
			Help: "Rate limit checks skipped because the bucket store failed",
		}),
	}
}

type Middleware struct {
	store   BucketStore
	limits  models.Limits
	logger  *slog.Logger
	metrics *Metrics
}

func New(store BucketStore, limits models.Limits, logger *slog.Logger, metrics *Metrics) *Middleware {
	return &Middleware{
		store:   store,
		limits:  limits,
		logger:  logger,
		metrics: metrics,
	}
}

// RateLimit charges one hit to the caller's budget for the request's class.
// Authenticated requests are keyed by account, others by client IP. A
// failing store lets the request through.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		class := classOf(r)
		limit, ok := m.limits[class]
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		key := callerKey(ctx)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		result, err := m.store.Allow(ctx, class.String()+":"+key, limit.Requests, limit.Window)
		if err != nil {
			m.logger.ErrorContext(ctx, "rate limit check failed",
				"error", err,
				"class", class,
				"request_id", requestcontext.RequestID(ctx),
			)
			if m.metrics != nil {
				m.metrics.storeErrors.Inc()
			}
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)

		if !result.Allowed {
			if m.metrics != nil {
				m.metrics.rejected.WithLabelValues(class.String()).Inc()
			}
			m.logger.InfoContext(ctx, "rate limit exceeded",
				"class", class,
				"request_id", requestcontext.RequestID(ctx),
			)
			writeRateLimitExceeded(w, result)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func classOf(r *http.Request) models.EndpointClass {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return models.ClassRead
	default:
		return models.ClassWrite
	}
}

func callerKey(ctx context.Context) string {
	if caller := requestcontext.Caller(ctx); !caller.IsNil() {
		return "account:" + caller.String()
	}
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		return "ip:" + ip
	}
	return ""
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
