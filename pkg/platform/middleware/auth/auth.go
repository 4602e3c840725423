// Package auth authenticates LOC API callers from bearer access tokens.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "locreg/pkg/domain"
	"locreg/pkg/platform/httputil"
	"locreg/pkg/requestcontext"
)

// JWTValidator verifies a bearer token and returns its claims.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// TokenRevocationChecker reports whether a token id was revoked before expiry.
type TokenRevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTClaims are the claims the middleware relies on. Account is the token
// subject; JTI keys revocation.
type JWTClaims struct {
	Account string
	JTI     string
}

// failure is a rejected authentication attempt. reason is logged, never sent.
type failure struct {
	status      int
	code        string
	description string
	reason      string
	err         error
}

var (
	errMissingToken = failure{http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header", "missing_token", nil}
	errBadToken     = failure{http.StatusUnauthorized, "unauthorized", "Invalid or expired token", "invalid_token", nil}
	errRevoked      = failure{http.StatusUnauthorized, "unauthorized", "Token has been revoked", "revoked", nil}
	errNoJTI        = failure{http.StatusUnauthorized, "unauthorized", "Token has been revoked", "missing_jti", nil}
	errBadSubject   = failure{http.StatusUnauthorized, "unauthorized", "Invalid or expired token", "malformed_subject", nil}
	errRevocation   = failure{http.StatusInternalServerError, "internal_error", "Failed to validate token", "revocation_check_failed", nil}
)

func (f failure) with(err error) *failure {
	f.err = err
	return &f
}

type authenticator struct {
	validator JWTValidator
	revoked   TokenRevocationChecker
}

// authenticate resolves the calling account from the Authorization header.
func (a authenticator) authenticate(r *http.Request) (id.AccountID, *failure) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", errMissingToken.with(nil)
	}

	claims, err := a.validator.ValidateToken(token)
	if err != nil {
		return "", errBadToken.with(err)
	}

	if a.revoked != nil {
		if claims.JTI == "" {
			return "", errNoJTI.with(nil)
		}
		revoked, err := a.revoked.IsTokenRevoked(r.Context(), claims.JTI)
		if err != nil {
			return "", errRevocation.with(err)
		}
		if revoked {
			return "", errRevoked.with(nil)
		}
	}

	caller, err := id.ParseAccountID(claims.Account)
	if err != nil {
		return "", errBadSubject.with(err)
	}
	return caller, nil
}

// RequireAuth rejects requests without a valid, unrevoked bearer token and
// stores the calling account in the context. revocationChecker may be nil.
func RequireAuth(validator JWTValidator, revocationChecker TokenRevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	a := authenticator{validator: validator, revoked: revocationChecker}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			caller, fail := a.authenticate(r)
			if fail != nil {
				reject(ctx, w, fail, logger)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(ctx, caller)))
		})
	}
}

func reject(ctx context.Context, w http.ResponseWriter, fail *failure, logger *slog.Logger) {
	attrs := []any{"reason", fail.reason, "request_id", requestcontext.RequestID(ctx)}
	if fail.err != nil {
		attrs = append(attrs, "error", fail.err)
	}
	if fail.status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "authentication failed", attrs...)
	} else {
		logger.WarnContext(ctx, "unauthorized access", attrs...)
		challenge := `Bearer realm="locreg"`
		if fail.reason != "missing_token" {
			challenge += `, error="invalid_token"`
		}
		w.Header().Set("WWW-Authenticate", challenge)
	}
	httputil.WriteJSON(w, fail.status, httputil.ErrorResponse{
		Error:            fail.code,
		ErrorDescription: fail.description,
	})
}
