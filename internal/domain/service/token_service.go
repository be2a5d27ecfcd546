package service

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the identity carried in a signed token.
type Claims struct {
	AccountID uuid.UUID
	Email     string
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly signed access and refresh token. A pair is
// returned only when both signatures succeeded.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService defines the interface for issuing and validating signed,
// time-bounded bearer tokens. Access and refresh tokens use independent
// secrets and expiry durations.
type TokenService interface {
	// IssueAccessToken signs a short-lived access token for the subject.
	IssueAccessToken(accountID uuid.UUID, email string) (string, error)

	// IssueRefreshToken signs a longer-lived refresh token for the subject.
	IssueRefreshToken(accountID uuid.UUID, email string) (string, error)

	// IssueTokenPair signs both tokens concurrently and returns the pair
	// only after both succeed; a failure of either sign fails the call.
	IssueTokenPair(ctx context.Context, accountID uuid.UUID, email string) (*TokenPair, error)

	// ValidateAccessToken checks signature and expiry of an access token
	// and extracts the subject identity.
	ValidateAccessToken(raw string) (*Claims, error)

	// ValidateRefreshToken checks signature and expiry of a refresh token
	// and extracts the subject identity.
	ValidateRefreshToken(raw string) (*Claims, error)
}
