package auth

import (
	"context"
	"testing"
	"time"

	"stockroom/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			AccessSecret:  "test_access_secret_key_very_long_for_testing",
			AccessExpiry:  15 * time.Minute,
			RefreshSecret: "test_refresh_secret_key_very_long_for_testing",
			RefreshExpiry: 7 * 24 * time.Hour,
		},
	}
}

func TestJWTService_IssueAndValidateTokenPair(t *testing.T) {
	tokenService, err := NewJWTService(newTestTokenConfig())
	require.NoError(t, err)

	accountID := uuid.New()
	email := "a@b.com"

	pair, err := tokenService.IssueTokenPair(context.Background(), accountID, email)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	accessClaims, err := tokenService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, accountID, accessClaims.AccountID)
	assert.Equal(t, email, accessClaims.Email)

	refreshClaims, err := tokenService.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, accountID, refreshClaims.AccountID)
	assert.Equal(t, email, refreshClaims.Email)
}

func TestJWTService_SecretsAreNotInterchangeable(t *testing.T) {
	tokenService, err := NewJWTService(newTestTokenConfig())
	require.NoError(t, err)

	accountID := uuid.New()

	accessToken, err := tokenService.IssueAccessToken(accountID, "a@b.com")
	require.NoError(t, err)
	refreshToken, err := tokenService.IssueRefreshToken(accountID, "a@b.com")
	require.NoError(t, err)

	// A token signed with one secret must not validate against the other.
	_, err = tokenService.ValidateRefreshToken(accessToken)
	assert.Error(t, err)
	_, err = tokenService.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	cfg := newTestTokenConfig()
	// A negative expiry mints a token whose exp already lies in the past.
	cfg.Auth.AccessExpiry = -time.Minute

	tokenService, err := NewJWTService(cfg)
	require.NoError(t, err)

	token, err := tokenService.IssueAccessToken(uuid.New(), "a@b.com")
	require.NoError(t, err)

	_, err = tokenService.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_ConfiguredExpiryGovernsClaims(t *testing.T) {
	cfg := newTestTokenConfig()
	cfg.Auth.AccessExpiry = time.Hour

	tokenService, err := NewJWTService(cfg)
	require.NoError(t, err)

	token, err := tokenService.IssueAccessToken(uuid.New(), "a@b.com")
	require.NoError(t, err)

	claims, err := tokenService.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_DefaultExpiryWhenUnset(t *testing.T) {
	cfg := newTestTokenConfig()
	cfg.Auth.AccessExpiry = 0

	tokenService, err := NewJWTService(cfg)
	require.NoError(t, err)

	token, err := tokenService.IssueAccessToken(uuid.New(), "a@b.com")
	require.NoError(t, err)

	claims, err := tokenService.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(defaultAccessTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTService_RejectsMalformedToken(t *testing.T) {
	tokenService, err := NewJWTService(newTestTokenConfig())
	require.NoError(t, err)

	_, err = tokenService.ValidateAccessToken("not.a.token")
	assert.Error(t, err)

	_, err = tokenService.ValidateAccessToken("")
	assert.Error(t, err)
}

func TestJWTService_RequiresSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{Auth: &config.AuthConfig{}})
	assert.Error(t, err)

	_, err = NewJWTService(&config.Config{})
	assert.Error(t, err)
}
