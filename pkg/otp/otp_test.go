package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeGenerator_SixDigits(t *testing.T) {
	g := NewCodeGenerator()

	for i := 0; i < 100; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 1000000)
	}
}

func TestCodeGenerator_ZeroPadded(t *testing.T) {
	g := NewCodeGenerator()

	// Enough draws that an unpadded small value would have shown up.
	for i := 0; i < 2000; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)
	}
}
