package hash

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Hasher provides one-way digests so plaintext emails and codes never persist.
type Hasher interface {
	Hash(text string) string
}

// SHA256Hasher lower-cases its input before digesting, so lookups are
// case-insensitive by construction.
type SHA256Hasher struct{}

func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Hash returns the hex-encoded SHA-256 digest of the lower-cased input.
func (h *SHA256Hasher) Hash(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(text)))

	//nolint:perfsprint
	return fmt.Sprintf("%x", sum)
}
