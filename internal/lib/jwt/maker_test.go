package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name     string
		username string
		userUID  string
	}{
		{
			name:     "email username",
			username: "viewer@example.com",
			userUID:  "2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de",
		},
		{
			name:     "plain username",
			username: "viewer01",
			userUID:  "a8f5f167-f44f-4964-baaf-2c8a2c9cfd13",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.username, tt.userUID)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.userUID, claims.UserUID)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "malformed token", token: "invalid.token.here"},
		{name: "garbage", token: "not-a-jwt-at-all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTMaker_ParseToken_WrongKey(t *testing.T) {
	maker := NewJWTMaker("first_secret_key", 15*time.Minute)
	other := NewJWTMaker("second_secret_key", 15*time.Minute)

	token, err := maker.GenerateToken("viewer@example.com", "2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de")
	require.NoError(t, err)

	claims, err := other.ParseToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTMaker_ParseToken_Expired(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", -time.Minute)

	token, err := maker.GenerateToken("viewer@example.com", "2b8031c5-15e7-4f83-a6a0-9a1c53b3f0de")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.Error(t, err)
	assert.Nil(t, claims)
}
