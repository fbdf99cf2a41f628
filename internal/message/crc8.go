package message

import "github.com/sigurn/crc8"

// crc8Params is CRC-8/K3: poly 0xD5, init 0, no input/output reflection, no
// xorout. It runs across every V2-flavoured packet in a message, accumulated
// across packets with the same Digest: for the first packet, the payload
// bytes (minus the trailing CRC byte on a short packet) followed by the
// encoded status byte; for each CRC8P follow-up, the payload bytes only.
var crc8Params = crc8.Params{
	Poly:   0xD5,
	Init:   0x00,
	RefIn:  false,
	RefOut: false,
	XorOut: 0x00,
	Check:  0x00,
	Name:   "CRC-8/RADIOCODEC",
}

var crc8Table = crc8.MakeTable(crc8Params)

// Digest is a running CRC8 accumulator, fed packet by packet as a message's
// follow-up packets arrive or are generated.
type Digest struct {
	crc uint8
}

// NewDigest returns a Digest primed to the algorithm's init value.
func NewDigest() *Digest {
	return &Digest{crc: crc8.Init(crc8Table)}
}

// Update feeds more bytes into the running digest.
func (d *Digest) Update(p []byte) {
	d.crc = crc8.Update(d.crc, p, crc8Table)
}

// Snapshot returns the CRC value as of the bytes seen so far, without
// mutating the digest — the same running accumulator keeps working for any
// packets appended afterward.
func (d *Digest) Snapshot() byte {
	return crc8.Complete(d.crc, crc8Table)
}
