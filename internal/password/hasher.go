// Package password provides one-way password hashing and verification.
package password

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost resists offline brute force while keeping interactive login
// under a second. The cost is fixed at construction and never derived from
// user input.
const DefaultCost = 12

type Hasher struct {
	cost  int
	dummy []byte
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	// Precomputed digest of a value no caller can know. Verifying against it
	// lets login burn a real bcrypt comparison when the email is unknown, so
	// "no such user" and "wrong password" take the same time.
	dummy, err := bcrypt.GenerateFromPassword([]byte("go-account-service/dummy-credential"), cost)
	if err != nil {
		// Only reachable with an out-of-range cost, which is clamped above.
		panic(err)
	}

	return &Hasher{cost: cost, dummy: dummy}
}

// Hash returns a digest with a per-call random salt embedded in it.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A mismatch or an
// unparseable digest both return false; it never errors.
func (h *Hasher) Verify(plaintext string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// VerifyDummy performs a comparison against the precomputed dummy digest,
// always failing. Used to equalize login timing when no account matches.
func (h *Hasher) VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
}
