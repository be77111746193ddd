// internal/auth/auth_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := CreateHash("correct horse battery staple", Params)
	require.NoError(t, err)

	ok, err := ComparePasswordAndHash("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePasswordAndHash("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDefaultParallelismNeverZero(t *testing.T) {
	// argon2.IDKey panics when parallelism is 0, which NumCPU()/2
	// yields on a single-CPU host.
	assert.GreaterOrEqual(t, Params.parallelism, uint8(1))
	assert.GreaterOrEqual(t, defaultParallelism(), uint8(1))
}

func TestComparePasswordRejectsMalformedHash(t *testing.T) {
	_, err := ComparePasswordAndHash("pw", "not-an-encoded-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestJWTRoundTrip(t *testing.T) {
	Init()

	token, err := CreateJWT("user-123")
	require.NoError(t, err)

	sub, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)

	_, err = AuthenticateJWT(token + "tampered")
	assert.Error(t, err)
}
