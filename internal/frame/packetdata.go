package frame

// PacketData is the link-layer frame: an 11-byte payload plus a status.
type PacketData struct {
	Data   [11]byte
	Status PacketStatus
}

// NewPacketData returns a zeroed packet in the Unknown status.
func NewPacketData() PacketData {
	return PacketData{Status: Unknown()}
}

func addChecksum(acc, v byte) byte { return acc + v }

// ComputeStatus recomputes the Legacy checksum4 field (all other variants'
// validity is enforced by the running CRC8 higher up the stack, so they are
// returned unchanged).
func (p PacketData) ComputeStatus() PacketStatus {
	if p.Status.Kind != KindLegacy {
		return p.Status
	}

	checksum8 := byte(0x55)
	for _, v := range p.Data {
		checksum8 = addChecksum(checksum8, v)
	}

	stripped := PacketStatus{Kind: KindLegacy, Legacy: Legacy{
		First: p.Status.Legacy.First,
		Last:  p.Status.Legacy.Last,
	}}
	checksum8 = addChecksum(checksum8, stripped.Encode())

	ucrc := checksum8 >> 4
	lcrc := checksum8 & 0xf
	checksum4 := ucrc + lcrc

	return PacketStatus{Kind: KindLegacy, Legacy: Legacy{
		First:     p.Status.Legacy.First,
		Last:      p.Status.Legacy.Last,
		Checksum4: checksum4,
	}}
}

// CheckValid compares the recomputed and stored status for logical
// consistency. Effective only for Legacy packets; every other variant is
// trivially valid here (their validity is the running CRC8's job).
func (p PacketData) CheckValid() bool {
	return p.ComputeStatus() == p.Status
}

// ToWireData returns the 12-byte wire image: the 11 payload bytes followed
// by the encoded (checksum-computed) status byte.
func (p PacketData) ToWireData() [12]byte {
	var out [12]byte
	copy(out[:11], p.Data[:])
	out[11] = p.ComputeStatus().Encode()
	return out
}

// EncodeForTransmit runs the full forward pipeline (Golay -> interleave ->
// DC-balance) producing the 32-byte on-air burst for this packet.
func (p PacketData) EncodeForTransmit() [32]byte {
	golay := GolayFromPacket(p)
	il := InterleaveForward(golay)
	return DCBalanceForward(il)
}

// GolayDecoderResult is a decoded PacketData plus Golay error counters.
type GolayDecoderResult struct {
	Data         PacketData
	Errors       int // bits corrected, summed over all eight codewords in the packet
	ParityErrors int // count of codewords whose parity bit disagreed
}
