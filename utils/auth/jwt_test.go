package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "test",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := testManager()

	token, jti, err := m.GenerateAccessToken(42, "user@example.com", "student", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, TokenAccess, claims.TokenType)
	assert.Equal(t, jti, claims.ID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _, err := testManager().GenerateAccessToken(1, "a@b.c", "visitor", 0)
	require.NoError(t, err)

	other := NewJWTManager(JWTConfig{Secret: "different", Expiry: time.Hour})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewJWTManager(JWTConfig{Secret: "s", Expiry: -time.Minute})
	token, _, err := m.GenerateAccessToken(1, "a@b.c", "visitor", 0)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshAccessToken(t *testing.T) {
	m := testManager()

	refresh, _, err := m.GenerateRefreshToken(7, "r@example.com", "instructor", 3)
	require.NoError(t, err)

	access, _, err := m.RefreshAccessToken(refresh, 3)
	require.NoError(t, err)

	claims, err := m.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, TokenAccess, claims.TokenType)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	m := testManager()

	access, _, err := m.GenerateAccessToken(7, "r@example.com", "instructor", 0)
	require.NoError(t, err)

	_, _, err = m.RefreshAccessToken(access, 0)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsStaleTokenVersion(t *testing.T) {
	m := testManager()

	// Logout bumps the version; older refresh tokens must stop working
	refresh, _, err := m.GenerateRefreshToken(7, "r@example.com", "student", 1)
	require.NoError(t, err)

	_, _, err = m.RefreshAccessToken(refresh, 2)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
