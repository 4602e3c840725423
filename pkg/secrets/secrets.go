// Package secrets mints and checks opaque operator tokens. Only bcrypt
// hashes of a token are ever configured or stored.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"

	dErrors "locreg/pkg/domain-errors"
)

// TokenBytes is the entropy of a generated token.
const TokenBytes = 32

// Generate returns a random URL-safe token of TokenBytes entropy.
func Generate() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash returns the bcrypt hash of token at the default cost.
func Hash(token string) (string, error) {
	return HashWithCost(token, bcrypt.DefaultCost)
}

// HashWithCost returns the bcrypt hash of token at the given cost.
func HashWithCost(token string, cost int) (string, error) {
	if token == "" {
		return "", dErrors.New(dErrors.CodeValidation, "token cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "token is too long")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not hash token")
	}
	return string(hashed), nil
}

// Verify checks token against a bcrypt hash. A mismatch, an empty token or
// a malformed hash are all reported as CodeUnauthorized.
func Verify(token, hash string) error {
	if token == "" || hash == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid token")
		}
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token hash")
	}
	return nil
}
