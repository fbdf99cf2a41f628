// Package rxassemble reconstructs a message.Message from the ordered
// sequence of frame.GolayDecoderResult values a radio receiver produces.
package rxassemble

import (
	"errors"

	"github.com/kstaniek/radiocodecd/internal/frame"
	"github.com/kstaniek/radiocodecd/internal/message"
	"github.com/kstaniek/radiocodecd/internal/varint"
)

// DecodeError classifies why Assembler.Append rejected a packet. Values are
// sentinel errors so callers compare with errors.Is.
type DecodeError struct {
	reason string
}

func (e *DecodeError) Error() string { return "rxassemble: " + e.reason }

var (
	// ErrOutOfOrder is returned when a Legacy "first" packet arrives after
	// data has already been accumulated for the current message.
	ErrOutOfOrder = &DecodeError{"packet out of order"}
	// ErrUnexpected is returned when a packet arrives after the previous
	// one already marked the message complete.
	ErrUnexpected = &DecodeError{"unexpected packet after terminal status"}
	// ErrInvalid is returned when a Legacy packet's checksum4 does not
	// match its recomputed value.
	ErrInvalid = &DecodeError{"packet failed internal validity check"}
	// ErrCRCFailed is returned when a running CRC8 snapshot does not match
	// the value carried on the wire.
	ErrCRCFailed = &DecodeError{"CRC8 mismatch"}
	// ErrFull is returned when appending payload would exceed message.MaxLen.
	ErrFull = &DecodeError{"message payload capacity exceeded"}
	// ErrUnknownPacket is returned for a packet that never resolved past
	// the Unknown framing state.
	ErrUnknownPacket = &DecodeError{"packet status still unknown"}
	// ErrRawNeedsDecoding is returned when a Raw-tagged packet was handed
	// to Append without first resolving it against last_status.
	ErrRawNeedsDecoding = &DecodeError{"raw packet status not yet decoded"}
	// ErrInternalOnly is returned for the Internal sentinel status, which
	// never appears on the air.
	ErrInternalOnly = &DecodeError{"status is internal-only"}
)

// RawReceiveData carries a decoded on-air burst alongside the receiver's
// signal-quality readings for that burst.
type RawReceiveData struct {
	Packet frame.GolayDecoderResult
	LNA    byte
	RSSI   byte
}

// Assembler accumulates packets belonging to one logical message. Create it
// with NewAssembler, which starts in the Unknown status (no packet accepted
// yet); the zero value has no CRC digest and is not ready to use.
type Assembler struct {
	Msg    message.Message
	Naked  bool
	RSSI   byte
	LNA    byte
	Errors byte

	lastStatus frame.PacketStatus
	crc        *message.Digest
}

// NewAssembler returns an Assembler ready to accept the first packet of a
// new message.
func NewAssembler() *Assembler {
	return &Assembler{
		lastStatus: frame.Unknown(),
		crc:        message.NewDigest(),
	}
}

// Append feeds one decoded packet into the assembler. Once it returns nil
// with the status Finished, Msg holds the reconstructed message.
func (a *Assembler) Append(dec frame.GolayDecoderResult) error {
	p := dec.Data

	if a.lastStatus.Kind == frame.KindLegacy && a.lastStatus.Legacy.Last {
		return ErrUnexpected
	}
	if a.lastStatus.Kind == frame.KindV2 && a.lastStatus.V2.Short {
		return ErrUnexpected
	}

	curStatus := p.Status
	if p.Status.Kind == frame.KindRaw {
		curStatus = a.lastStatus.Decode(p.Status.Byte)
	}

	if !p.CheckValid() {
		return ErrInvalid
	}

	skip := 0
	size := len(p.Data)

	switch curStatus.Kind {
	case frame.KindLegacy:
		if a.Msg.Len != 0 && curStatus.Legacy.First {
			return ErrOutOfOrder
		}
		if curStatus.Legacy.First {
			var packetType uint32
			packetType, skip = varint.Decode(p.Data[:], skip)
			a.Msg.PacketType = packetType
			a.Msg.HasPacketType = true
			a.Msg.SourceAddress, skip = varint.Decode(p.Data[:], skip)
		}
		a.Msg.Version = message.VersionLegacyLaso

	case frame.KindV2:
		a.Naked = curStatus.V2.Naked

		if !a.Naked {
			var packetType uint32
			packetType, skip = varint.Decode(p.Data[:], skip)
			a.Msg.PacketType = packetType
			a.Msg.HasPacketType = true
		}
		a.Msg.SourceAddress, skip = varint.Decode(p.Data[:], skip)

		switch {
		case a.Naked && curStatus.V2.Short:
			a.Msg.Version = message.VersionNakedShort
		case a.Naked:
			a.Msg.Version = message.VersionNaked
		case curStatus.V2.Short:
			a.Msg.Version = message.VersionV2Short
			size--
		default:
			a.Msg.Version = message.VersionV2
		}

		if !a.Naked {
			a.crc.Update(p.Data[:size])
			a.crc.Update([]byte{p.Status.Encode()})

			if curStatus.V2.Short {
				crc := p.Data[size]
				if crc != a.crc.Snapshot() {
					return ErrCRCFailed
				}
			}
		}

	case frame.KindCRC8P:
		a.crc.Update(p.Data[:])
		if curStatus.Byte != a.crc.Snapshot() {
			return ErrCRCFailed
		}

	case frame.KindUnknown:
		return ErrUnknownPacket
	case frame.KindInternal:
		return ErrInternalOnly
	case frame.KindRaw:
		return ErrRawNeedsDecoding
	case frame.KindData:
		// No header action; the extra payload byte is appended below.
	}

	a.lastStatus = curStatus
	a.Errors = saturatingAdd(a.Errors, dec.Errors)
	a.Errors = saturatingAdd(a.Errors, dec.ParityErrors)

	for i := skip; i < size; i++ {
		if !a.Msg.Push(p.Data[i]) {
			return ErrFull
		}
	}

	if curStatus.Kind == frame.KindData {
		if !a.Msg.Push(curStatus.Byte) {
			return ErrFull
		}
	}

	return nil
}

// Finished reports whether the last accepted packet completed the message.
func (a *Assembler) Finished() bool {
	return a.lastStatus.Finished()
}

func saturatingAdd(acc byte, n int) byte {
	sum := int(acc) + n
	if sum > 0xff {
		return 0xff
	}
	return byte(sum)
}

// IsDecodeError reports whether err is one of this package's sentinel
// decode errors, for callers that only need a yes/no classification.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// MetricLabel maps a decode error to the short label used for the
// metrics counter vector, so the label set is defined once alongside the
// errors it classifies rather than duplicated at every call site.
func MetricLabel(err error) string {
	switch err {
	case ErrOutOfOrder:
		return "out_of_order"
	case ErrUnexpected:
		return "unexpected"
	case ErrInvalid:
		return "invalid"
	case ErrCRCFailed:
		return "crc_failed"
	case ErrFull:
		return "full"
	case ErrUnknownPacket:
		return "unknown_packet"
	case ErrRawNeedsDecoding:
		return "raw_needs_decoding"
	case ErrInternalOnly:
		return "internal_only"
	default:
		return "other"
	}
}
