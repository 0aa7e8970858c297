package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gas-complaint-server/config"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret-123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-123", hash)

	assert.True(t, CheckPasswordHash("secret-123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("secret-123", "not-a-hash"))
}

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig = &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
	}

	token, err := GenerateToken("1234567890", "supervisor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", claims.UserID)
	assert.Equal(t, "supervisor", claims.Role)

	_, err = VerifyToken(token + "tampered")
	assert.Error(t, err)

	// A token minted under one secret fails under another.
	config.AppConfig.JWT.Secret = "rotated-secret"
	_, err = VerifyToken(token)
	assert.Error(t, err)
}
