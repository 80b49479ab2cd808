package borghash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFitSize(t *testing.T) {
	require.Equal(t, 1031, fitSize(1))
	require.Equal(t, 1031, fitSize(1031))
	require.Equal(t, 2053, fitSize(1032))
	require.Equal(t, 2053, fitSize(2053))
	require.Equal(t, hashSizes[len(hashSizes)-1], fitSize(hashSizes[len(hashSizes)-1]))
	require.Equal(t, hashSizes[len(hashSizes)-1], fitSize(hashSizes[len(hashSizes)-1]+1))
	require.Equal(t, hashSizes[len(hashSizes)-1], fitSize(1<<62))
}

func TestGrowSize(t *testing.T) {
	require.Equal(t, 2053, growSize(1))
	require.Equal(t, 2053, growSize(1031))
	require.Equal(t, 4099, growSize(1032))
	top := hashSizes[len(hashSizes)-1]
	require.Equal(t, top, growSize(top))
	require.Equal(t, top, growSize(top+1))
}

func TestShrinkSize(t *testing.T) {
	require.Equal(t, hashSizes[0], shrinkSize(1))
	require.Equal(t, hashSizes[0], shrinkSize(1031))
	require.Equal(t, hashSizes[0], shrinkSize(2053))
	require.Equal(t, 2053, shrinkSize(4099))
	require.Equal(t, hashSizes[len(hashSizes)-2], shrinkSize(hashSizes[len(hashSizes)-1]))
}

func TestLadderMonotonic(t *testing.T) {
	for i := 1; i < len(hashSizes); i++ {
		require.Greater(t, hashSizes[i], hashSizes[i-1])
	}
}

func TestUpperLowerLimit(t *testing.T) {
	require.Equal(t, 773, upperLimit(1031)) // floor(1031 * 0.75)
	require.Equal(t, 0, lowerLimit(1031))
	require.Equal(t, 0, lowerLimit(hashSizes[0]))
	require.Equal(t, 513, lowerLimit(2053)) // floor(2053 * 0.25)

	top := hashSizes[len(hashSizes)-1]
	require.Equal(t, top, upperLimit(top))
}
