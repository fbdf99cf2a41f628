package dcbalance

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFullReversibility(t *testing.T) {
	for b := 0; b <= 0x3f; b++ {
		encoded := Balance(byte(b))
		decoded := Strip(encoded)
		require.Equal(t, byte(b), decoded, "reversability broken for 0x%x (encoded 0x%x)", b, encoded)
	}
}

// longestBitSequence returns the longest run of identical bits in the
// lowest `length` bits of code.
func longestBitSequence(code uint16, length int) int {
	var last int8 = -1
	count, maxCount := 0, 0
	for i := 0; i < length; i++ {
		bit := int8((code >> i) & 0x1)
		if last == -1 || last != bit {
			count = 0
		}
		last = bit
		count++
		if count > maxCount {
			maxCount = count
		}
	}
	return maxCount
}

func TestMaxSequenceInIsolation(t *testing.T) {
	for b := 0; b <= 0x3f; b++ {
		encoded := Balance(byte(b))
		seq := longestBitSequence(uint16(encoded), 8)
		require.LessOrEqual(t, seq, 3, "long streak of %d same bits for 0x%x (encoded 0x%x)", seq, b, encoded)
	}
}

func TestMaxSequenceInPair(t *testing.T) {
	for b1 := 0; b1 <= 0x3f; b1++ {
		for b2 := 0; b2 <= 0x3f; b2++ {
			e1, e2 := Balance(byte(b1)), Balance(byte(b2))
			seq := longestBitSequence(uint16(e1)<<8|uint16(e2), 16)
			require.LessOrEqual(t, seq, 5, "long streak of %d same bits for 0x%x|0x%x", seq, b1, b2)
		}
	}
}

func TestAverageSequenceInPairBelowBound(t *testing.T) {
	var total uint32
	for b1 := 0; b1 <= 0x3f; b1++ {
		for b2 := 0; b2 <= 0x3f; b2++ {
			e1, e2 := Balance(byte(b1)), Balance(byte(b2))
			total += uint32(longestBitSequence(uint16(e1)<<8|uint16(e2), 16))
		}
	}
	total *= 1000
	total /= 64 * 64
	require.Less(t, total, uint32(3000), "average sequence length is %d/1000", total)
}

func TestOneBitErrorImpact(t *testing.T) {
	for b := 0; b <= 0x3f; b++ {
		encoded := Balance(byte(b))
		for i := 0; i < 8; i++ {
			decoded := Strip(encoded ^ (1 << i))
			errBits := byte(b) ^ decoded
			require.LessOrEqual(t, bits.OnesCount8(errBits), 1, "bit errors for 0x%x with flip 0x%x", b, 1<<i)
		}
	}
}

func TestTwoBitErrorImpact(t *testing.T) {
	for b := 0; b <= 0x3f; b++ {
		encoded := Balance(byte(b))
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				if i == j {
					continue
				}
				mask := byte(1<<i | 1<<j)
				decoded := Strip(encoded ^ mask)
				errBits := byte(b) ^ decoded
				require.LessOrEqual(t, bits.OnesCount8(errBits), 2, "bit errors for 0x%x with mask 0x%x", b, mask)
			}
		}
	}
}
