package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "locreg/internal/jwt_token"
	"locreg/pkg/secrets"
)

func TestRunAccess_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runAccess([]string{"-json", "-ttl", "2m", "-key", "k", "-issuer", "iss"}, &out))

	var got accessToken
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, devAccount, got.Account)
	assert.Equal(t, "2m0s", got.ExpiresIn)
	assert.False(t, got.DevKey)

	claims, err := jwttoken.NewJWTService("k", "iss", time.Minute).ValidateToken(got.Token)
	require.NoError(t, err)
	assert.Equal(t, got.JTI, claims.ID)
}

func TestRunAccess_RejectsBadAccount(t *testing.T) {
	err := runAccess([]string{"-account", "not-an-account"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid account")
}

func TestRunAdmin_HashMatchesToken(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runAdmin([]string{"-json", "-token", "operator-token"}, &out))

	var got adminToken
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "operator-token", got.Token)
	assert.NoError(t, secrets.Verify("operator-token", got.Hash))
}

func TestRunAdmin_GeneratesToken(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runAdmin(nil, &out))
	assert.Contains(t, out.String(), "LOCREG_ADMIN_TOKEN_HASH=")
}
