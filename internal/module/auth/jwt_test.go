package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimart/server/internal/module/user"
)

func newTestManager() *JWTManager {
	return NewJWTManager(&JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "agrimart-test",
	})
}

func testUser(userType user.UserType) *user.User {
	return &user.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    "test@example.com",
		UserType: userType,
	}
}

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := newTestManager()
	u := testUser(user.UserTypeSeller)

	token, expiresAt, err := manager.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, "seller", claims.UserType)
	assert.Equal(t, u.ID.String(), claims.Subject)
}

func TestJWTManager_ValidateToken_Middleware(t *testing.T) {
	manager := newTestManager()
	u := testUser(user.UserTypeBuyer)

	token, _, err := manager.GenerateAccessToken(u)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "buyer", claims.UserType)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	manager := newTestManager()
	other := NewJWTManager(&JWTConfig{
		Secret:            "different-secret",
		AccessTokenExpiry: 15 * time.Minute,
	})

	token, _, err := manager.GenerateAccessToken(testUser(user.UserTypeBuyer))
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager(&JWTConfig{
		Secret:            "test-secret",
		AccessTokenExpiry: -time.Minute,
	})

	token, _, err := manager.GenerateAccessToken(testUser(user.UserTypeBuyer))
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	manager := newTestManager()

	_, err := manager.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RefreshTokenHashing(t *testing.T) {
	manager := newTestManager()

	raw, hash, expiresAt, err := manager.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.NotEqual(t, raw, hash)
	assert.Equal(t, hash, manager.HashRefreshToken(raw))
	assert.True(t, expiresAt.After(time.Now().Add(6*24*time.Hour)))

	raw2, hash2, _, err := manager.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
	assert.NotEqual(t, hash, hash2)
}

func TestRefreshToken_IsValid(t *testing.T) {
	now := time.Now()

	valid := &RefreshToken{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, valid.IsValid())

	expired := &RefreshToken{ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, expired.IsValid())

	revoked := &RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &now}
	assert.False(t, revoked.IsValid())
}
