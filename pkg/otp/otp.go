package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeSpace = 1000000

// Generator produces one-time verification codes.
type Generator interface {
	Generate() (string, error)
}

// CodeGenerator draws 6-digit codes from crypto/rand. The code is a shared
// secret delivered over email, so a predictable source is not acceptable.
type CodeGenerator struct{}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{}
}

// Generate returns a zero-padded decimal code uniform over [0, 1000000).
func (g *CodeGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", fmt.Errorf("read random code failed: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
