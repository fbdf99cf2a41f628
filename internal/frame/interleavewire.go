package frame

import "github.com/kstaniek/radiocodecd/internal/interleave"

// InterleaveForward bit-transposes the eight 24-bit Golay codewords.
func InterleaveForward(golayBuf [24]byte) [24]byte {
	return interleave.Forward(golayBuf)
}

// InterleaveInverse is the exact transpose of InterleaveForward.
func InterleaveInverse(interleaved [24]byte) [24]byte {
	return interleave.Inverse(interleaved)
}
