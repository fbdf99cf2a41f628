package varint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for v := uint32(0); v < 1<<20; v += 37 {
		var buf []byte
		Encode(v, func(b byte) { buf = append(buf, b) })
		got, n := Decode(buf, 0)
		require.Equal(t, v, got, "round trip mismatch for 0x%x", v)
		require.Equal(t, len(buf), n, "did not consume whole encoding for 0x%x", v)
	}
}

// TestRoundTripFullRange samples the entire 0..2^28 range the varlength
// codec is required to round-trip (four 7-bit continuation groups), using a
// prime stride so the sample isn't aligned with any power-of-two shift
// boundary, plus every group-boundary value checked exactly below.
func TestRoundTripFullRange(t *testing.T) {
	const limit = 1 << 28
	for v := uint32(0); v < limit; v += 104729 {
		var buf []byte
		Encode(v, func(b byte) { buf = append(buf, b) })
		got, n := Decode(buf, 0)
		require.Equal(t, v, got, "round trip mismatch for 0x%x", v)
		require.Equal(t, len(buf), n, "did not consume whole encoding for 0x%x", v)
	}
}

// TestRoundTripGroupBoundaries exercises values straddling each 7-bit
// continuation-group boundary (2^7, 2^14, 2^21, 2^28), including the
// regression case of a value needing the 4th group (2^21 exactly), which
// a shift cap short of 28 would truncate to (0, 3) instead of round-tripping.
func TestRoundTripGroupBoundaries(t *testing.T) {
	boundaries := []uint32{
		1<<7 - 1, 1 << 7, 1<<7 + 1,
		1<<14 - 1, 1 << 14, 1<<14 + 1,
		1<<21 - 1, 1 << 21, 1<<21 + 1,
		2097152, // the literal regression value: encodes to 4 bytes [0x80,0x80,0x80,0x01]
		1<<28 - 1,
	}
	for _, v := range boundaries {
		var buf []byte
		Encode(v, func(b byte) { buf = append(buf, b) })
		got, n := Decode(buf, 0)
		require.Equal(t, v, got, "round trip mismatch for 0x%x", v)
		require.Equal(t, len(buf), n, "did not consume whole encoding for 0x%x", v)
	}
}

func TestDecodeStopsOnExhaustion(t *testing.T) {
	// A buffer that never clears its continuation bit should stop at EOF,
	// not loop forever.
	buf := []byte{0x80, 0x80}
	_, n := Decode(buf, 0)
	require.Equal(t, 2, n)
}

func TestEncodeIDMatchesVarlength(t *testing.T) {
	for v := uint16(0x80); v <= 0x3999; v++ {
		var buf []byte
		Encode(uint32(v), func(b byte) { buf = append(buf, b) })

		var want uint16
		for _, b := range buf {
			want = (want << 8) | uint16(b)
		}
		require.Equal(t, want, EncodeID(v), "bad match for 0x%x", v)
	}
}

func TestEncodeSingleByteBelow0x80(t *testing.T) {
	var buf []byte
	Encode(0x42, func(b byte) { buf = append(buf, b) })
	require.Equal(t, []byte{0x42}, buf)
}
