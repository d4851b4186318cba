// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("pw123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("pw123456", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordMalformed(t *testing.T) {
	_, err := VerifyPassword("x", "plaintext")
	assert.ErrorIs(t, err, errMalformedHash)
}

func TestVerifyPasswordWithRehash(t *testing.T) {
	current, err := HashPassword("pw123456")
	require.NoError(t, err)

	ok, rehash, err := VerifyPasswordWithRehash("pw123456", current)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, rehash)

	weak := strings.Replace(current, "t=1", "t=2", 1)
	assert.True(t, needsRehash(weak))
}

func TestTokens(t *testing.T) {
	tok, err := GenerateSecureToken(EmailTokenBytes)
	require.NoError(t, err)
	assert.NotContains(t, tok, "=")

	other, err := GenerateSecureToken(EmailTokenBytes)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)

	hash := HashToken(tok)
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashToken(tok))
	assert.NotEqual(t, hash, HashToken(other))
}
