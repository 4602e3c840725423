package secrets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dErrors "locreg/pkg/domain-errors"
)

func TestGenerate(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43) // 32 bytes, unpadded base64
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}

func TestHashAndVerify(t *testing.T) {
	hash, err := HashWithCost("operator-token", bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("matching token verifies", func(t *testing.T) {
		assert.NoError(t, Verify("operator-token", hash))
	})

	t.Run("mismatch is unauthorized", func(t *testing.T) {
		err := Verify("other-token", hash)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("malformed hash is unauthorized", func(t *testing.T) {
		err := Verify("operator-token", "not-a-bcrypt-hash")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("empty inputs are unauthorized", func(t *testing.T) {
		assert.True(t, dErrors.HasCode(Verify("", hash), dErrors.CodeUnauthorized))
		assert.True(t, dErrors.HasCode(Verify("operator-token", ""), dErrors.CodeUnauthorized))
	})
}

func TestHashRejectsBadInput(t *testing.T) {
	_, err := Hash("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = HashWithCost(strings.Repeat("x", 73), bcrypt.MinCost)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
