package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func legacyPacket(bytes [11]byte, first, last bool) PacketData {
	return PacketData{
		Data:   bytes,
		Status: NewLegacy(first, last),
	}
}

func TestComputeStatusChecksum(t *testing.T) {
	p := legacyPacket([11]byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0xE1, 0xD2, 0xC3}, true, true)
	require.Equal(t, byte(0x74), p.ComputeStatus().Encode())
}

func TestComputeStatusChecksumSimplePacket(t *testing.T) {
	p := legacyPacket([11]byte{0x81, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A}, true, true)
	require.Equal(t, byte(0x24), p.ComputeStatus().Encode())
}

func TestEncodeForTransmitWorkedExample(t *testing.T) {
	p := legacyPacket([11]byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0xE1, 0xD2, 0xC3}, true, true)

	golayWant := [24]byte{
		0x88, 0x51, 0x23, 0x5e, 0xa4, 0x56, 0x93, 0x67, 0x89, 0x21, 0xea, 0xbc, 0x4d, 0x6d,
		0xef, 0x62, 0x20, 0xe1, 0x6a, 0x9d, 0x2c, 0xed, 0x03, 0x74,
	}
	require.Equal(t, golayWant, GolayFromPacket(p))

	wireWant := [32]byte{
		0x98, 0xa6, 0xd8, 0x6a, 0xd2, 0x2c, 0xc9, 0xab, 0x39, 0xe5, 0xe3, 0xb2, 0xe5, 0xb4,
		0xaa, 0x2a, 0x26, 0xe6, 0x2b, 0x9a, 0x66, 0xa9, 0xa3, 0x71, 0x31, 0x99, 0x38, 0x74,
		0x6b, 0xd8, 0x6c, 0xb4,
	}
	require.Equal(t, wireWant, p.EncodeForTransmit())
}

func TestGolayRoundTripThroughPipeline(t *testing.T) {
	p := legacyPacket([11]byte{0x81, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A}, true, true)

	golayBuf := GolayFromPacket(p)
	il := InterleaveForward(golayBuf)
	dc := DCBalanceForward(il)

	il2 := DCBalanceInverse(dc)
	require.Equal(t, il, il2)

	golay2 := InterleaveInverse(il2)
	require.Equal(t, golayBuf, golay2)

	dec := GolayDecode(golayBuf)
	require.Equal(t, p.Data, dec.Data.Data)
	require.Zero(t, dec.Errors)
	require.Zero(t, dec.ParityErrors)
}

func TestV2StatusReversability(t *testing.T) {
	cases := []V2{
		{Short: false, Listen: true, Naked: false},
		{Short: false, Listen: false, Naked: false},
		{Short: true, Listen: true, Naked: false},
		{Short: true, Listen: false, Naked: false},
		{Short: false, Listen: true, Naked: true},
		{Short: false, Listen: false, Naked: true},
		{Short: true, Listen: true, Naked: true},
		{Short: true, Listen: false, Naked: true},
	}
	for _, v2 := range cases {
		status := NewV2(v2)
		require.Equal(t, status, Unknown().Decode(status.Encode()))
	}

	followUp := NewV2(V2{Short: false, Listen: true, Naked: false})
	require.Equal(t, CRC8P(0x55), followUp.Decode(0x55))

	nakedFollowUp := NewV2(V2{Short: false, Listen: true, Naked: true})
	require.Equal(t, Data(0x55), nakedFollowUp.Decode(0x55))
}

func TestLegacyStatusReversability(t *testing.T) {
	s := PacketStatus{Kind: KindLegacy, Legacy: Legacy{First: true, Last: true, Checksum4: 0x5}}
	require.Equal(t, s, Unknown().Decode(s.Encode()))

	s2 := PacketStatus{Kind: KindLegacy, Legacy: Legacy{First: true, Last: false, Checksum4: 0x5}}
	require.Equal(t, s2, Unknown().Decode(s2.Encode()))

	s3 := PacketStatus{Kind: KindLegacy, Legacy: Legacy{First: false, Last: true, Checksum4: 0x5}}
	require.Equal(t, s3, s3.Decode(s3.Encode()))
}

func TestCRCStatusReversability(t *testing.T) {
	first := NewV2(V2{Short: false, Listen: false, Naked: false})
	s := CRC8P(0x32)
	require.Equal(t, s, first.Decode(s.Encode()))
	require.Equal(t, s, s.Decode(s.Encode()))
}
