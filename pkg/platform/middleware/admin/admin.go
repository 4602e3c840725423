// Package admin guards operator routes with a shared token whose bcrypt
// hash is the only thing held in configuration.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"locreg/pkg/platform/httputil"
	"locreg/pkg/requestcontext"
	"locreg/pkg/secrets"
)

const (
	TokenHeader = "X-Admin-Token"
	// ActorHeader names the operator for logs and published events.
	ActorHeader = "X-Admin-Actor-ID"

	// DefaultActor is recorded when no actor header is sent.
	DefaultActor   = "admin"
	maxActorLength = 64
)

type actorKey struct{}

// WithActor stores the operator name on ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the operator name, or "" outside admin routes.
func ActorFrom(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}

// RequireAdminToken admits requests whose X-Admin-Token verifies against
// tokenHash. An empty tokenHash rejects everything.
func RequireAdminToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if reason := checkToken(r.Header.Get(TokenHeader), tokenHash); reason != "" {
				logger.WarnContext(ctx, "admin request rejected",
					"reason", reason,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error:            "unauthorized",
					ErrorDescription: "admin token required",
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(ctx, actorOf(r))))
		})
	}
}

func checkToken(token, hash string) string {
	switch {
	case hash == "":
		return "admin_disabled"
	case token == "":
		return "missing_token"
	case secrets.Verify(token, hash) != nil:
		return "token_mismatch"
	}
	return ""
}

func actorOf(r *http.Request) string {
	actor := strings.TrimSpace(r.Header.Get(ActorHeader))
	if actor == "" {
		return DefaultActor
	}
	if len(actor) > maxActorLength {
		actor = actor[:maxActorLength]
	}
	return actor
}
