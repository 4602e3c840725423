// Package jwttoken issues and verifies the HS256 access tokens whose
// subject is the caller's chain account.
package jwttoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "locreg/pkg/domain"
	dErrors "locreg/pkg/domain-errors"
	"locreg/pkg/requestcontext"
)

const jtiBytes = 16

type AccountTokenClaims struct {
	jwt.RegisteredClaims
}

func (c *AccountTokenClaims) Account() string { return c.Subject }

type JWTService struct {
	key    []byte
	issuer string
	ttl    time.Duration
	parser *jwt.Parser
}

func NewJWTService(signingKey string, issuer string, tokenTTL time.Duration) *JWTService {
	return &JWTService{
		key:    []byte(signingKey),
		issuer: issuer,
		ttl:    tokenTTL,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// GenerateAccountToken signs a token for account, timed by the request
// clock in ctx, and returns it with its JTI.
func (s *JWTService) GenerateAccountToken(ctx context.Context, account id.AccountID) (token string, jti string, err error) {
	if account.IsNil() {
		return "", "", dErrors.New(dErrors.CodeInvalidInput, "account cannot be empty")
	}
	if jti, err = newJTI(); err != nil {
		return "", "", err
	}

	issuedAt := requestcontext.Now(ctx)
	claims := AccountTokenClaims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        jti,
		Issuer:    s.issuer,
		Subject:   account.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
	}}
	if token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key); err != nil {
		return "", "", err
	}
	return token, jti, nil
}

func newJTI() (string, error) {
	raw := make([]byte, jtiBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// ValidateToken verifies signature, algorithm, issuer and expiry. An
// expired token is CodeUnauthorized; every other failure is
// CodeInvalidInput.
func (s *JWTService) ValidateToken(tokenString string) (*AccountTokenClaims, error) {
	claims := &AccountTokenClaims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid token issuer")
	default:
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid token")
	}
}
