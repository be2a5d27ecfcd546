// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"stockroom/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// Create persists a new account. A unique-constraint violation on
	// the email column surfaces as a domain conflict error.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// UpdateRefreshTokenHash stores the hash of the current refresh
	// token for the account, or clears it when hash is nil.
	UpdateRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error

	// LockByID takes a row-level lock on the account. Only meaningful
	// inside a transaction; it serializes concurrent refresh attempts
	// racing on the same account.
	LockByID(ctx context.Context, id uuid.UUID) error
}
