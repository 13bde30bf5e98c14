package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateJWT(t *testing.T) {
	token, expiresAt, err := GenerateJWT(testSecret, 42, "admin@example.com", []string{"admin"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.WithinDuration(t, time.Now().Add(TokenTTL), expiresAt, 5*time.Second)

	claims, err := ValidateJWT(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, _, err := GenerateJWT(testSecret, 1, "a@b.c", nil)
	require.NoError(t, err)

	_, err = ValidateJWT("other-secret", token)
	assert.Error(t, err)
}

func TestValidateJWTMalformed(t *testing.T) {
	_, err := ValidateJWT(testSecret, "not-a-token")
	assert.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	claims := Claims{
		UserID: 1,
		Email:  "a@b.c",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * TokenTTL)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateJWT(testSecret, token)
	assert.Error(t, err)
	assert.True(t, IsTokenExpired(token))
}

func TestValidateJWTRejectsUnexpectedMethod(t *testing.T) {
	// alg=none style tokens must not pass.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateJWT(testSecret, signed)
	assert.Error(t, err)
}

func TestIsTokenExpiredFreshToken(t *testing.T) {
	token, _, err := GenerateJWT(testSecret, 1, "a@b.c", nil)
	require.NoError(t, err)
	assert.False(t, IsTokenExpired(token))
}

func TestIsTokenExpiredGarbage(t *testing.T) {
	assert.True(t, IsTokenExpired("garbage"))
}
