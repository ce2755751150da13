package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyvra/marketplace-api/internal/model"
)

func testUser() *model.User {
	return &model.User{
		Base:  model.Base{ID: uuid.New()},
		Email: "user@example.com",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "refresh-secret", "marketplace-api", time.Hour, 24*time.Hour)
	user := testUser()

	token, tokenID, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "refresh-secret", "marketplace-api", time.Hour, 24*time.Hour)
	user := testUser()

	token, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestTokensUseSeparateSecrets(t *testing.T) {
	svc := NewJWTService("secret", "refresh-secret", "marketplace-api", time.Hour, 24*time.Hour)
	user := testUser()

	access, _, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = svc.ValidateToken(refresh)
	assert.Error(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", "refresh-a", "marketplace-api", time.Hour, 24*time.Hour)
	verifier := NewJWTService("secret-b", "refresh-b", "marketplace-api", time.Hour, 24*time.Hour)

	token, _, err := issuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", "refresh-secret", "marketplace-api", -time.Minute, 24*time.Hour)

	token, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestUniqueTokenIDs(t *testing.T) {
	svc := NewJWTService("secret", "refresh-secret", "marketplace-api", time.Hour, 24*time.Hour)
	user := testUser()

	_, first, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	_, second, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
