package auth

import (
	"strings"
	"testing"

	"stockroom/config"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	password := "secret1"
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Round trip succeeds for the original plaintext only.
	assert.True(t, hasher.Check(password, hash))
	assert.False(t, hasher.Check("secret2", hash))
	assert.False(t, hasher.Check("", hash))
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_DistinctSaltsPerHash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	first, err := hasher.Hash("secret1")
	assert.NoError(t, err)
	second, err := hasher.Hash("secret1")
	assert.NoError(t, err)

	// Salted hashing means two digests of the same input differ.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("secret1", first))
	assert.True(t, hasher.Check("secret1", second))
}

func TestBcryptHasher_LongInputs(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	// Signed refresh tokens are far longer than bcrypt's 72-byte limit.
	token := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 12)
	hash, err := hasher.Hash(token)
	assert.NoError(t, err)
	assert.True(t, hasher.Check(token, hash))

	// A token differing only past the 72nd byte must not verify.
	other := token[:len(token)-1] + "x"
	assert.False(t, hasher.Check(other, hash))
}

func TestBcryptHasher_CostFromConfig(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 6}}
	hasher := NewBcryptHasher(cfg)

	hash, err := hasher.Hash("secret1")
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, 6, cost)
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	hash, err := hasher.Hash("secret1")
	assert.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	assert.NoError(t, err)
	assert.Equal(t, defaultCost, cost)
}
