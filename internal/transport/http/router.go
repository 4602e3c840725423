// Package httptransport assembles the public HTTP surface: middleware chain,
// authentication boundaries and route registration.
package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"locreg/internal/admin"
	lochandler "locreg/internal/loc/handler"
	"locreg/internal/platform/health"
	ratelimitmw "locreg/internal/ratelimit/middleware"
	adminmw "locreg/pkg/platform/middleware/admin"
	"locreg/pkg/platform/middleware/auth"
	"locreg/pkg/platform/middleware/client"
	"locreg/pkg/platform/middleware/metadata"
	request "locreg/pkg/platform/middleware/request"
	"locreg/pkg/platform/validation"
)

// DefaultRequestTimeout bounds every request handled by the router.
const DefaultRequestTimeout = 30 * time.Second

// Dependencies are the handlers and security collaborators the router mounts.
// Admin routes are skipped when Admin is nil or AdminTokenHash is empty.
// RateLimit is optional.
type Dependencies struct {
	Logger         *slog.Logger
	Loc            *lochandler.Handler
	Admin          *admin.Handler
	Health         *health.Handler
	JWT            auth.JWTValidator
	Revocations    auth.TokenRevocationChecker
	AdminTokenHash string
	TrustedProxies []netip.Prefix
	RateLimit      *ratelimitmw.Middleware
	Metrics        *request.Metrics
	Gatherer       prometheus.Gatherer
	Timeout        time.Duration
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(deps Dependencies) http.Handler {
	timeout := deps.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(deps.Logger))
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(&metadata.Config{TrustedProxies: deps.TrustedProxies}).Handler)
	r.Use(client.Middleware)
	r.Use(request.PinTime(time.Now))
	r.Use(request.AccessLog(deps.Logger))
	r.Use(request.Instrument(deps.Metrics))
	r.Use(request.Timeout(timeout))
	r.Use(request.RequireJSON)
	r.Use(request.BodyLimit(validation.MaxBodySize))

	if deps.Health != nil {
		deps.Health.Register(r)
	}
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	if deps.Admin != nil && deps.AdminTokenHash != "" {
		r.Group(func(r chi.Router) {
			r.Use(adminmw.RequireAdminToken(deps.AdminTokenHash, deps.Logger))
			deps.Admin.Register(r)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.JWT, deps.Revocations, deps.Logger))
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.RateLimit)
		}
		deps.Loc.Register(r)
	})

	return r
}
