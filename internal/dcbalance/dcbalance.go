// Package dcbalance implements the 6b/8b DC-balancing line code used to
// keep the on-air byte stream free of long runs of identical bits.
//
// Given a 6-bit value "a b c d e f" (MSB to LSB), the encoded byte is
// "a b X c d Y e f", where X and Y are chosen to bias the symbol toward an
// even split of ones and zeros.
package dcbalance

import "math/bits"

// Balance maps a 6-bit value (0..63) to its 8-bit DC-balanced symbol.
func Balance(raw byte) byte {
	onesLeft := bits.OnesCount8((raw >> 2) & 0xF)
	onesRight := bits.OnesCount8(raw & 0xF)

	var bx byte = 1
	if onesLeft > 2 {
		bx = 0
	}

	var by byte
	if onesRight < 2 {
		by = 1
	}

	return (raw>>4)&0x3<<6 | bx<<5 | (raw>>2)&0x3<<3 | by<<2 | raw&0x3
}

// Strip recovers the original 6-bit value from a DC-balanced symbol,
// discarding the two stuffing bits.
func Strip(enc byte) byte {
	return (enc&0b11000000)>>2 | (enc&0b00011000)>>1 | (enc & 0b00000011)
}
