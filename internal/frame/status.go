// Package frame implements the link-layer packet frame (C4) and the
// packet-status state machine (C5): the 11-byte payload container plus its
// tagged status byte, and the Golay/interleave/DC-balance wire transforms
// that turn one into a 32-byte on-air burst and back.
package frame

// StatusKind tags which PacketStatus variant is active.
type StatusKind uint8

const (
	KindUnknown StatusKind = iota
	KindLegacy
	KindV2
	KindCRC8P
	KindData
	KindRaw
	KindInternal
)

// Legacy carries the original LASO per-packet status: a continuation flag
// pair plus a 4-bit checksum over the packet.
type Legacy struct {
	First     bool
	Last      bool
	Checksum4 byte
}

// V2 describes a first-of-group packet in the newer framing.
type V2 struct {
	Short  bool // the message fits in this one packet
	Naked  bool // follow-up packets carry one extra payload byte instead of a CRC
	Listen bool // transmitter switches to receive after this packet
}

// PacketStatus is the tagged status-byte variant framing a packet: Legacy,
// V2, CRC8P, Data, Raw, Unknown or Internal. Only one of the typed fields is
// meaningful, selected by Kind.
type PacketStatus struct {
	Kind   StatusKind
	Legacy Legacy
	V2     V2
	Byte   byte // meaning depends on Kind: CRC8P digest, Data payload byte, or Raw undecoded byte
}

// NewLegacy builds an Internal-less Legacy status, mirroring
// PacketStatus::legacy() in the original source.
func NewLegacy(first, last bool) PacketStatus {
	return PacketStatus{Kind: KindLegacy, Legacy: Legacy{First: first, Last: last}}
}

// NewV2 builds a first-packet V2 status.
func NewV2(v2 V2) PacketStatus {
	return PacketStatus{Kind: KindV2, V2: v2}
}

// Unknown is the initial decoder state.
func Unknown() PacketStatus { return PacketStatus{Kind: KindUnknown} }

// Internal is a sentinel for instances that never go on the air.
func Internal() PacketStatus { return PacketStatus{Kind: KindInternal} }

// Raw tags a status byte that has not yet been classified by Decode.
func Raw(b byte) PacketStatus { return PacketStatus{Kind: KindRaw, Byte: b} }

// Data tags a naked-mode status byte repurposed as an extra payload byte.
func Data(b byte) PacketStatus { return PacketStatus{Kind: KindData, Byte: b} }

// CRC8P tags a non-first V2 packet's running CRC8 snapshot.
func CRC8P(b byte) PacketStatus { return PacketStatus{Kind: KindCRC8P, Byte: b} }

// Finished reports whether this status marks the end of a message: a
// terminal Legacy or V2-short packet, or a state that never carries data.
func (s PacketStatus) Finished() bool {
	switch s.Kind {
	case KindLegacy:
		return s.Legacy.Last
	case KindV2:
		return s.V2.Short
	case KindUnknown, KindInternal:
		return true
	default: // CRC8P, Data, Raw
		return false
	}
}

// Decode classifies the next raw status byte given the previous packet's
// status (the receiver, `s`, drives the state machine).
func (s PacketStatus) Decode(next byte) PacketStatus {
	switch s.Kind {
	case KindLegacy:
		return PacketStatus{Kind: KindLegacy, Legacy: Legacy{
			First:     next&0x4 > 0,
			Last:      next&0x1 == 0,
			Checksum4: next >> 4,
		}}
	case KindV2:
		if s.V2.Naked {
			return Data(next)
		}
		return CRC8P(next)
	case KindUnknown:
		if next&0b100 > 0 {
			return PacketStatus{Kind: KindLegacy, Legacy: Legacy{
				First:     next&0x4 > 0,
				Last:      next&0x1 == 0,
				Checksum4: next >> 4,
			}}
		}
		return PacketStatus{Kind: KindV2, V2: V2{
			Short:  next&0x1 == 0,
			Listen: next&0x8 > 0,
			Naked:  next&0x2 > 0,
		}}
	case KindCRC8P:
		return CRC8P(next)
	case KindRaw:
		return Raw(next)
	case KindData:
		return Data(next)
	default: // Internal
		return Internal()
	}
}

// Encode renders the status byte for on-air transmission.
func (s PacketStatus) Encode() byte {
	switch s.Kind {
	case KindLegacy:
		var flags byte
		if s.Legacy.First {
			flags += 0x4
		}
		if !s.Legacy.Last {
			flags += 0x1
		}
		return flags | (s.Legacy.Checksum4 << 4)
	case KindV2:
		var flags byte
		if s.V2.Listen {
			flags += 0x8
		}
		if s.V2.Naked {
			flags += 0x2
		}
		if !s.V2.Short {
			flags += 0x1
		}
		return flags
	case KindCRC8P, KindRaw, KindData:
		return s.Byte
	default: // Unknown, Internal
		return 0x00
	}
}
