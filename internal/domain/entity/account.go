// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered user of the catalog API.
// PasswordHash and RefreshTokenHash never leave the persistence and
// usecase layers; responses carry an AccountView projection instead.
type Account struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the account.
	Email        string    // Unique login identifier.
	Name         string    // Display name, no uniqueness constraint.
	PasswordHash string    // bcrypt digest of the account's password.

	// RefreshTokenHash holds the digest of the most recently issued
	// refresh token, or nil when the account has no active session.
	// It is set by login, rotated by refresh and cleared by logout.
	RefreshTokenHash *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSession reports whether the account currently holds an active
// refresh session.
func (a *Account) HasSession() bool {
	return a.RefreshTokenHash != nil
}
