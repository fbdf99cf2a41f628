// Package txsegment turns a message.Message into the sequence of
// frame.PacketData values that carry it over the air, one packet per call to
// Sender.Packet.
package txsegment

import (
	"github.com/kstaniek/radiocodecd/internal/frame"
	"github.com/kstaniek/radiocodecd/internal/message"
	"github.com/kstaniek/radiocodecd/internal/varint"
)

// Sender walks a Message, handing out one packet at a time until
// DataToSend reports false. It owns the running CRC8 digest that spans
// every V2-flavoured packet belonging to the message.
type Sender struct {
	msg        message.Message
	nextStatus frame.PacketStatus
	sent       int
	crc        *message.Digest

	// force, when set, keeps DataToSend reporting true for exactly one
	// more packet even though every payload byte has been sent: it covers
	// the case where a non-short V2 first packet consumes the message's
	// last byte exactly, and a CRC8P follow-up is still owed to carry the
	// CRC (the first packet's status byte has no room for it).
	force bool
}

// NewSender primes a Sender for msg, choosing the first packet's status
// template from the message's framing version.
func NewSender(msg message.Message) *Sender {
	s := &Sender{msg: msg, crc: message.NewDigest()}
	switch msg.Version {
	case message.VersionLegacyLaso:
		s.nextStatus = frame.NewLegacy(true, true)
	case message.VersionNaked, message.VersionNakedShort:
		s.nextStatus = frame.NewV2(frame.V2{Naked: true, Listen: msg.WillListen})
	default: // V2, V2Short
		s.nextStatus = frame.NewV2(frame.V2{Listen: msg.WillListen})
	}
	return s
}

// DataToSend reports whether any payload bytes remain unsent, or a forced
// CRC8P follow-up is still owed.
func (s *Sender) DataToSend() bool {
	return s.sent < s.msg.Len || s.force
}

// Packet builds and returns the next packet, advancing the sender's
// internal cursor, CRC digest and status template.
func (s *Sender) Packet() frame.PacketData {
	p := frame.NewPacketData()
	p.Status = s.nextStatus

	pos := 0
	switch p.Status.Kind {
	case frame.KindLegacy:
		if p.Status.Legacy.First {
			pos = varint.AppendID(p.Data[:], pos, uint16(s.msg.PacketType))
			varint.Encode(s.msg.SourceAddress, func(b byte) {
				p.Data[pos] = b
				pos++
			})
		}
		s.fill(p.Data[:], pos, len(p.Data))
		p.Status.Legacy.Last = !s.DataToSend()
		s.nextStatus = frame.NewLegacy(false, true)

	case frame.KindV2:
		if !p.Status.V2.Naked {
			pos = varint.AppendID(p.Data[:], pos, uint16(s.msg.PacketType))
		}
		varint.Encode(s.msg.SourceAddress, func(b byte) {
			p.Data[pos] = b
			pos++
		})

		if p.Status.V2.Naked {
			s.fill(p.Data[:], pos, len(p.Data))
			p.Status.V2.Short = !s.DataToSend()
			s.nextStatus = frame.Data(0x00)
			break
		}

		// Non-naked first packet: a CRC8 is required somewhere in the
		// message, either as this packet's trailing byte (short) or in a
		// dedicated CRC8P follow-up. Reserve the trailing byte only when
		// there is room to spare; an exact fit forces the follow-up.
		available := len(p.Data) - pos
		remaining := s.msg.Len - s.sent
		if remaining < available {
			limit := len(p.Data) - 1
			s.fill(p.Data[:], pos, limit)
			p.Status.V2.Short = true
			s.crc.Update(p.Data[:limit])
			s.crc.Update([]byte{p.Status.Encode()})
			p.Data[limit] = s.crc.Snapshot()
		} else {
			s.fill(p.Data[:], pos, len(p.Data))
			p.Status.V2.Short = false
			s.crc.Update(p.Data[:])
			s.crc.Update([]byte{p.Status.Encode()})
			s.nextStatus = frame.CRC8P(0x00)
			s.force = remaining == available
		}

	case frame.KindCRC8P:
		s.fill(p.Data[:], 0, len(p.Data))
		s.crc.Update(p.Data[:])
		p.Status = frame.CRC8P(s.crc.Snapshot())
		s.nextStatus = frame.CRC8P(0x00)
		s.force = false

	case frame.KindData:
		var b byte
		if s.sent < s.msg.Len {
			b = s.msg.Data[s.sent]
		}
		s.sent++
		p.Status = frame.Data(b)
		s.nextStatus = frame.Data(0x00)
	}

	p.Status = p.ComputeStatus()
	return p
}

// fill copies unsent message payload into data[pos:limit], leaving any
// remaining slots zero (the array's zero value).
func (s *Sender) fill(data []byte, pos, limit int) {
	for pos < limit && s.sent < s.msg.Len {
		data[pos] = s.msg.Data[s.sent]
		pos++
		s.sent++
	}
}
