package frame

import "github.com/kstaniek/radiocodecd/internal/dcbalance"

// DCBalanceForward consumes the 24 interleaved bytes six bits at a time
// (LSB-first, lowest index first) and DC-balances each 6-bit group into one
// of the 32 on-air bytes.
func DCBalanceForward(interleaved [24]byte) [32]byte {
	var out [32]byte

	var buff uint16
	var buffCnt uint
	srcNext := 0

	for i := 0; i < 32; i++ {
		if buffCnt < 6 {
			src := uint16(interleaved[srcNext])
			srcNext++
			buff |= src << buffCnt
			buffCnt += 8
		}
		idx := buff & 0x3f
		buff >>= 6
		buffCnt -= 6
		out[i] = dcbalance.Balance(byte(idx))
	}

	return out
}

// DCBalanceInverse strips DC-balancing from the 32 on-air bytes, reassembling
// the 24 interleaved bytes six bits at a time.
func DCBalanceInverse(dc [32]byte) [24]byte {
	var out [24]byte

	var buff uint16
	var buffCnt uint
	dstNext := 0

	for i := 0; i < len(dc); i++ {
		dst := uint16(dcbalance.Strip(dc[i]))
		buff |= dst << buffCnt
		buffCnt += 6

		if buffCnt >= 8 {
			b := buff & 0xff
			buff >>= 8
			buffCnt -= 8
			out[dstNext] = byte(b)
			dstNext++
		}
	}

	return out
}
