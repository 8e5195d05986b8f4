package cfix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashesAreDeterministic(t *testing.T) {
	require.Equal(t, h1(12345), h1(12345))
	require.Equal(t, h2(12345), h2(12345))
}

func TestHashesAreIndependent(t *testing.T) {
	require.NotEqual(t, h1(12345), h2(12345))
	require.NotEqual(t, h1(0), h2(0))
}

func TestPrimaryAndSecondaryStayInRange(t *testing.T) {
	bins := uint32(113)
	for _, k := range []uint32{0, 1, 42, 1 << 31, 0xFFFFFFFE} {
		require.Less(t, primary(k, bins), bins)
		require.Less(t, secondary(k, bins), bins)
	}
}

func TestPrixForRoundsUpToBinCapacity(t *testing.T) {
	p := prixFor(100)
	require.GreaterOrEqual(t, binsFor(p)*BinSize, uint32(100))
	if p > 0 {
		require.Less(t, binsFor(p-1)*BinSize, uint32(100))
	}
}

func TestBinsForClampsOutOfRangeIndex(t *testing.T) {
	require.Equal(t, primeTable[0], binsFor(-1))
	require.Equal(t, primeTable[len(primeTable)-1], binsFor(len(primeTable)+10))
}
