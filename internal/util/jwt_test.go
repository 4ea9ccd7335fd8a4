package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(testSecret, 42, 15*time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, TokenAccess, claims.TokenType)
	assert.Empty(t, claims.JTI)
}

func TestRefreshTokenCarriesJTI(t *testing.T) {
	token, err := GenerateRefreshToken(testSecret, 7, "jti-123", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, TokenRefresh, claims.TokenType)
	assert.Equal(t, "jti-123", claims.JTI)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(testSecret, 1, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
	assert.False(t, IsExpired(err))
}

func TestExpiredTokenIsDistinguishable(t *testing.T) {
	token, err := GenerateAccessToken(testSecret, 1, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	require.Error(t, err)
	assert.True(t, IsExpired(err))
}
