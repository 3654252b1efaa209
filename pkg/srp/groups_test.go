package srp_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fzdarsky/srpkit/pkg/srp"
)

func TestGetGroup(t *testing.T) {
	generators := map[int]int64{
		1024: 2,
		1536: 2,
		2048: 2,
		3072: 5,
		4096: 5,
		6144: 5,
		8192: 19,
	}

	for _, bits := range srp.GroupSizes() {
		group, err := srp.GetGroup(bits)
		require.NoError(t, err, "group %d", bits)

		assert.Equal(t, bits, group.N.BitLen(), "N bit length for group %d", bits)
		assert.Equal(t, bits/8, group.ByteLength(), "byte length for group %d", bits)
		assert.Equal(t, generators[bits], group.G.Int64(), "generator for group %d", bits)
		assert.Equal(t, uint(1), group.N.Bit(0), "N must be odd for group %d", bits)
	}
}

func TestGetGroupUnknown(t *testing.T) {
	for _, bits := range []int{0, 512, 2047, 16384} {
		_, err := srp.GetGroup(bits)
		require.Error(t, err)
		assert.ErrorIs(t, err, srp.ErrUnknownGroup)
	}
}

func TestGroupPrimality(t *testing.T) {
	// Spot-check the smaller groups; the larger ones share the RFC 3526
	// primes and the full check is too slow for a unit test.
	for _, bits := range []int{1024, 1536, 2048} {
		group, err := srp.GetGroup(bits)
		require.NoError(t, err)

		assert.True(t, group.N.ProbablyPrime(16), "N must be prime for group %d", bits)

		// Safe prime: (N-1)/2 is also prime.
		q := new(big.Int).Rsh(new(big.Int).Sub(group.N, big.NewInt(1)), 1)
		assert.True(t, q.ProbablyPrime(16), "(N-1)/2 must be prime for group %d", bits)
	}
}
