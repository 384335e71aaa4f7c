package build

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionInts(t *testing.T) {
	v := newVer(1, 2, 3)
	mj, mi, p := v.Ints()
	require.Equal(t, uint32(1), mj)
	require.Equal(t, uint32(2), mi)
	require.Equal(t, uint32(3), p)
	require.Equal(t, "1.2.3", v.String())

	require.True(t, v.EqMajorMinor(newVer(1, 2, 9)))
	require.False(t, v.EqMajorMinor(newVer(1, 3, 3)))
}
