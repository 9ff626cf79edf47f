package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	userID := uuid.New()

	pair, err := m.GenerateTokenPair(userID, RoleTraveler)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RoleTraveler, claims.Role)
}

func TestJWTManager_RejectsRefreshAsAccess(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)

	pair, err := m.GenerateTokenPair(uuid.New(), RoleSender)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RefreshToken(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	userID := uuid.New()

	pair, err := m.GenerateTokenPair(userID, RoleTraveler)
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTManager("secret", time.Minute, -time.Minute)
	pair, err = expired.GenerateTokenPair(userID, RoleTraveler)
	require.NoError(t, err)
	_, err = expired.ValidateRefreshToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsForeignAndExpired(t *testing.T) {
	issuer := NewJWTManager("other-secret", time.Minute, time.Hour)
	pair, err := issuer.GenerateTokenPair(uuid.New(), RoleAdmin)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Minute, time.Hour).ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTManager("secret", -time.Minute, time.Hour)
	pair, err = expired.GenerateTokenPair(uuid.New(), RoleAdmin)
	require.NoError(t, err)
	_, err = expired.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
