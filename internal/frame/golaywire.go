package frame

import "github.com/kstaniek/radiocodecd/internal/golay"

// GolayFromPacket packs a packet's 12-byte wire image into eight 12-bit
// symbols (big-endian, three wire bytes per pair of symbols) and applies the
// Golay (24,12) code to each, producing the 24-byte PacketWithGolay buffer.
func GolayFromPacket(p PacketData) [24]byte {
	wire := p.ToWireData()

	var out [24]byte
	iSrc, iDst := 0, 0
	for iSrc < len(wire) {
		src1 := uint16(wire[iSrc])<<4 | uint16(wire[iSrc+1]>>4)
		src2 := (uint16(wire[iSrc+1])<<8 + uint16(wire[iSrc+2])) & 0xfff

		dst1 := golay.Encode(src1)
		dst2 := golay.Encode(src2)

		out[iDst] = byte(dst1 >> 16)
		out[iDst+1] = byte(dst1 >> 8)
		out[iDst+2] = byte(dst1)

		out[iDst+3] = byte(dst2 >> 16)
		out[iDst+4] = byte(dst2 >> 8)
		out[iDst+5] = byte(dst2)

		iSrc += 3
		iDst += 6
	}
	return out
}

// GolayDecode reverses GolayFromPacket: it Golay-corrects each of the eight
// codewords, reassembles the 12-byte wire image, and tags the status byte
// as Raw pending classification by the caller (the receive assembler).
func GolayDecode(golayBuf [24]byte) GolayDecoderResult {
	var ret GolayDecoderResult
	var buff [12]byte

	iSrc, iDst := 0, 0
	for iSrc < len(golayBuf) {
		src1 := uint32(golayBuf[iSrc])<<16 | uint32(golayBuf[iSrc+1])<<8 | uint32(golayBuf[iSrc+2])
		src2 := uint32(golayBuf[iSrc+3])<<16 | uint32(golayBuf[iSrc+4])<<8 | uint32(golayBuf[iSrc+5])

		dst1, err1, parity1 := golay.Decode(src1)
		dst2, err2, parity2 := golay.Decode(src2)

		if !parity1 {
			ret.ParityErrors++
		}
		if !parity2 {
			ret.ParityErrors++
		}

		buff[iDst] = byte(dst1 >> 4)
		buff[iDst+1] = byte((dst1&0xf)<<4) + byte((dst2&0xf00)>>8)
		buff[iDst+2] = byte(dst2)

		ret.Errors += err1 + err2

		iSrc += 6
		iDst += 3
	}

	var data [11]byte
	copy(data[:], buff[:11])
	ret.Data.Data = data
	ret.Data.Status = Raw(buff[11])

	return ret
}
