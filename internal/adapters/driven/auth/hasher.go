package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"

	"github.com/custodia-labs/ident-core/internal/core/ports/driven"
)

// Ensure Hasher implements PasswordHasher
var _ driven.PasswordHasher = (*Hasher)(nil)

// Hasher produces bcrypt digests of passwords and refresh tokens.
// Inputs are pre-hashed with SHA-256: bcrypt rejects anything over
// 72 bytes and refresh tokens are well past that limit.
type Hasher struct {
	cost int
}

// NewHasher creates a hasher with the default work factor (10 rounds)
func NewHasher() *Hasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

// NewHasherWithCost creates a hasher with a custom work factor
func NewHasherWithCost(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash generates a salted bcrypt digest from the plaintext
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(preHash(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify checks if the plaintext matches a bcrypt digest
func (h *Hasher) Verify(plaintext, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), preHash(plaintext))
	return err == nil
}

func preHash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
