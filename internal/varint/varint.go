// Package varint implements the LSB-first 7-bit continuation integer codec
// used for packet header fields (source address, packet type).
package varint

// Encode emits v as 7-bit little-endian groups, MSB set on every non-final
// group and clear on the last, invoking emit once per output byte.
func Encode(v uint32, emit func(b byte)) {
	for v >= 0x80 {
		emit(0x80 | byte(v&0x7F))
		v >>= 7
	}
	emit(byte(v))
}

// Decode consumes 7-bit groups from data starting at start, LSB-first,
// stopping when a group with a clear continuation bit is read or the input
// is exhausted. It returns the decoded value and the index of the next
// unconsumed byte. Values are only guaranteed to round-trip through
// Encode/Decode up to 2^28-1 (4 continuation groups); data claiming more
// groups than that is not produced by Encode for values in the supported
// range and is simply truncated at the 4th group.
func Decode(data []byte, start int) (uint32, int) {
	var val uint32
	var shift uint
	idx := start
	for shift < 28 && idx < len(data) {
		b := uint32(data[idx])
		val += (b & 0x7F) << shift
		shift += 7
		idx++
		if b&0x80 == 0 {
			break
		}
	}
	return val, idx
}

// EncodeID packs the same continuation-byte sequence Encode would produce
// for v into a single big-endian uint16, so a generic byte-appending helper
// produces an identical wire image. Only defined for 0x80..=0x3999.
func EncodeID(v uint16) uint16 {
	var out uint16
	for v >= 0x80 {
		out = (out << 8) | 0x80 | (v & 0x7F)
		v >>= 7
	}
	out = (out << 8) | v
	return out
}

// AppendID writes the two-byte big-endian image of EncodeID(id) into dst
// starting at pos and returns the index past the written bytes. Below 0x80
// the image's high byte is zero and only one meaningful byte is produced by
// the wire, but the field is still two bytes wide on the frame.
func AppendID(dst []byte, pos int, id uint16) int {
	v := EncodeID(id)
	dst[pos] = byte(v >> 8)
	dst[pos+1] = byte(v)
	return pos + 2
}
