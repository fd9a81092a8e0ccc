package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher wraps bcrypt hashing with a configurable cost factor.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher. Costs outside the bcrypt range fall back to the
// library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted one-way hash from the plaintext password. The salt is
// generated per call, so two hashes of the same password differ.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares plaintext against a stored hash in constant time. It returns
// false for any failure, including a malformed stored hash; callers cannot
// distinguish a mismatch from a corrupt record.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
