package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushFillsUntilCapacity(t *testing.T) {
	var m Message
	for i := 0; i < MaxLen; i++ {
		require.True(t, m.Push(byte(i)))
	}
	require.False(t, m.Push(0xFF))
	require.Equal(t, MaxLen, m.Len)
}

func TestPayloadViewTracksLen(t *testing.T) {
	var m Message
	m.Push(0x01)
	m.Push(0x02)
	require.Equal(t, []byte{0x01, 0x02}, m.Payload())
}

func TestEqualIgnoresUnusedTail(t *testing.T) {
	var a, b Message
	a.Push(0xAA)
	b.Push(0xAA)
	b.Data[200] = 0x7F // garbage beyond Len must not affect equality
	require.True(t, a.Equal(b))
}

func TestVersionString(t *testing.T) {
	require.Equal(t, "LegacyLaso", VersionLegacyLaso.String())
	require.Equal(t, "V2", VersionV2.String())
	require.Equal(t, "V2Short", VersionV2Short.String())
	require.Equal(t, "Naked", VersionNaked.String())
	require.Equal(t, "NakedShort", VersionNakedShort.String())
}

func TestCRC8DigestIsDeterministicAndRunning(t *testing.T) {
	d := NewDigest()
	d.Update([]byte{0x55})
	first := d.Snapshot()

	d2 := NewDigest()
	d2.Update([]byte{0x55})
	require.Equal(t, first, d2.Snapshot(), "same input must produce the same digest")

	// Running digest keeps accumulating rather than resetting per Update call.
	d.Update([]byte{0x01})
	require.NotEqual(t, first, d.Snapshot())
}
