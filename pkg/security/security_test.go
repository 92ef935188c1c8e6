package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_JWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	claims := NewTokenClaims("user-1", "u1@example.com", time.Now().Add(time.Hour).Unix())

	token, err := GenerateJWT(claims, secret)
	require.NoError(t, err)

	parsed, err := ParseJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.User)
	assert.Equal(t, "u1@example.com", parsed.Email)
}

func Test_JWTExpired(t *testing.T) {
	secret := []byte("test-secret")
	claims := NewTokenClaims("user-1", "u1@example.com", time.Now().Add(-time.Hour).Unix())
	claims.NotBefore = time.Now().Add(-2 * time.Hour).Unix()

	token, err := GenerateJWT(claims, secret)
	require.NoError(t, err)

	_, err = ParseJWT(token, secret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func Test_JWTWrongSecret(t *testing.T) {
	claims := NewTokenClaims("user-1", "u1@example.com", time.Now().Add(time.Hour).Unix())
	token, err := GenerateJWT(claims, []byte("secret-a"))
	require.NoError(t, err)

	_, err = ParseJWT(token, []byte("secret-b"))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
