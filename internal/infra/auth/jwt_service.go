// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"time"

	"stockroom/config"
	"stockroom/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Access and refresh tokens are signed with separate secrets so a leaked
// access secret cannot be used to forge refresh tokens.
type jwtService struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Auth == nil || cfg.Auth.AccessSecret == "" || cfg.Auth.RefreshSecret == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	// Zero means unset; any configured expiry governs the signed exp.
	accessTTL := cfg.Auth.AccessExpiry
	if accessTTL == 0 {
		accessTTL = defaultAccessTTL
	}
	refreshTTL := cfg.Auth.RefreshExpiry
	if refreshTTL == 0 {
		refreshTTL = defaultRefreshTTL
	}

	return &jwtService{
		accessSecret:  cfg.Auth.AccessSecret,
		refreshSecret: cfg.Auth.RefreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssueAccessToken signs a short-lived access token for the subject.
func (s *jwtService) IssueAccessToken(accountID uuid.UUID, email string) (string, error) {
	return s.sign(accountID, email, s.accessTTL, s.accessSecret)
}

// IssueRefreshToken signs a longer-lived refresh token for the subject.
func (s *jwtService) IssueRefreshToken(accountID uuid.UUID, email string) (string, error) {
	return s.sign(accountID, email, s.refreshTTL, s.refreshSecret)
}

// IssueTokenPair signs the access and refresh token on independent
// goroutines; the two signatures have no ordering dependency. The first
// failure cancels the pair and nothing partial is returned.
func (s *jwtService) IssueTokenPair(ctx context.Context, accountID uuid.UUID, email string) (*service.TokenPair, error) {
	var pair service.TokenPair

	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		token, err := s.IssueAccessToken(accountID, email)
		if err != nil {
			return errors.Wrap(err, "failed to sign access token")
		}
		pair.AccessToken = token

		return nil
	})
	group.Go(func() error {
		token, err := s.IssueRefreshToken(accountID, email)
		if err != nil {
			return errors.Wrap(err, "failed to sign refresh token")
		}
		pair.RefreshToken = token

		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &pair, nil
}

// ValidateAccessToken checks signature and expiry of an access token.
func (s *jwtService) ValidateAccessToken(raw string) (*service.Claims, error) {
	return s.validate(raw, s.accessSecret)
}

// ValidateRefreshToken checks signature and expiry of a refresh token.
func (s *jwtService) ValidateRefreshToken(raw string) (*service.Claims, error) {
	return s.validate(raw, s.refreshSecret)
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// sign creates a JWT carrying the subject identity.
func (s *jwtService) sign(accountID uuid.UUID, email string, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// validate parses and verifies a token string against a secret and maps
// the claims onto the domain identity.
func (s *jwtService) validate(raw string, secret string) (*service.Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject in token")
	}

	return &service.Claims{
		AccountID:        accountID,
		Email:            claims.Email,
		RegisteredClaims: claims.RegisteredClaims,
	}, nil
}
