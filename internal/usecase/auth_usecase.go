// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"stockroom/internal/domain/entity"
	"stockroom/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// ConfirmPassword is checked at the binding layer; the usecase only
// re-validates the password itself.
type RegisterInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,nospaces"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshInput carries a refresh token presented for rotation. The
// account ID always comes from the verified bearer identity, never from
// the request body.
type RefreshInput struct {
	AccountID    uuid.UUID `json:"-"`
	RefreshToken string    `json:"refreshToken" validate:"required"`
}

// --- Output DTOs ---

// AccountView is the caller-facing projection of an account. It is a
// distinct type so the password and refresh token hashes physically
// cannot leak into a response.
type AccountView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAccountView projects an account entity into its response shape.
func NewAccountView(account *entity.Account) *AccountView {
	return &AccountView{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		CreatedAt: account.CreatedAt,
	}
}

// AuthUsecase defines the credential lifecycle operations.
// This is the contract that the delivery layer (e.g. API handlers) will depend on.
type AuthUsecase interface {
	// Register creates a new account with a hashed password and no
	// active session.
	Register(ctx context.Context, input *RegisterInput) (*AccountView, error)

	// Login verifies credentials and issues a fresh token pair,
	// persisting the hash of the new refresh token.
	Login(ctx context.Context, input *LoginInput) (*service.TokenPair, error)

	// RefreshTokens exchanges a valid refresh token for a new pair,
	// rotating the stored hash. Each refresh token is single use.
	RefreshTokens(ctx context.Context, input *RefreshInput) (*service.TokenPair, error)

	// Logout clears the stored refresh token hash. Idempotent.
	Logout(ctx context.Context, accountID uuid.UUID) error
}
