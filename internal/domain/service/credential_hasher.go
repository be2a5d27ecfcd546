// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// CredentialHasher defines the interface for one-way credential hashing
// and verification. It is used for both passwords and refresh tokens, so
// a leaked account table cannot be replayed without the live token.
type CredentialHasher interface {
	// Hash generates a salted hash from a plaintext credential.
	Hash(plain string) (string, error)

	// Check compares a plaintext credential with a hash. The comparison
	// runs in constant time regardless of where a mismatch occurs.
	Check(plain, hash string) bool
}
