package interleave

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForwardMatchesWorkedExample(t *testing.T) {
	pre := [24]byte{
		0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0xe1, 0xd2, 0xc3, 0xb4, 0xa5, 0x96,
		0x87, 0x78, 0x69, 0x5a, 0x4b, 0x3c, 0x2d, 0x1e, 0xf, 0xcc,
	}
	want := [24]byte{
		0x2a, 0x8c, 0xdb, 0x47, 0xd4, 0x72, 0xa5, 0x79, 0x15, 0x59, 0x8b, 0x47, 0xea, 0xa6,
		0x34, 0x78, 0xa, 0xb3, 0x29, 0x67, 0xf5, 0x4c, 0x76, 0x38,
	}
	require.Equal(t, want, Forward(pre))
}

func TestRoundTrip(t *testing.T) {
	pre := [24]byte{
		0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0xe1, 0xd2, 0xc3, 0xb4, 0xa5, 0x96,
		0x87, 0x78, 0x69, 0x5a, 0x4b, 0x3c, 0x2d, 0x1e, 0xf, 0xcc,
	}
	require.Equal(t, pre, Inverse(Forward(pre)))
}

func TestRoundTripRandomish(t *testing.T) {
	var pre [24]byte
	seed := uint32(0x2545F491)
	for i := range pre {
		seed = seed*1103515245 + 12345
		pre[i] = byte(seed >> 16)
	}
	require.Equal(t, pre, Inverse(Forward(pre)))
}
