// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"stockroom/config"
	"stockroom/internal/domain/service"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost matches the work factor the API has always used for
// stored credentials.
const defaultCost = 10

// bcryptHasher is a concrete implementation of the CredentialHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.CredentialHasher interface.
func NewBcryptHasher(cfg *config.Config) service.CredentialHasher {
	cost := defaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	return &bcryptHasher{cost: cost}
}

// NewBcryptHasherWithCost builds a hasher with an explicit cost, mainly
// for tests that want a cheap work factor.
func NewBcryptHasherWithCost(cost int) service.CredentialHasher {
	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext credential using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(normalize(plain), h.cost)

	return string(bytes), err
}

// Check compares a plaintext credential with a bcrypt hash. bcrypt's
// comparison is constant time with respect to the credential.
func (h *bcryptHasher) Check(plain, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), normalize(plain))
	// err is nil if the credential and hash match.
	return err == nil
}

// normalize pre-digests inputs longer than bcrypt's 72-byte limit so the
// hasher also accepts signed refresh tokens, which exceed it. Shorter
// inputs (passwords) pass through untouched, keeping existing stored
// hashes valid.
func normalize(plain string) []byte {
	if len(plain) <= 72 {
		return []byte(plain)
	}

	sum := sha256.Sum256([]byte(plain))

	return []byte(hex.EncodeToString(sum[:]))
}
