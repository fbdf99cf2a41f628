package main

// packetType is a small varlength-encodable application payload-type
// registry, kept only as a demo example: the library core has no concept of
// payload semantics beyond carrying raw bytes.
type packetType uint32

const (
	packetTypeTemperature packetType = 0x100
	packetTypeWaterLevel  packetType = 0x101
	packetTypeGSMStatus   packetType = 0x102
)

func (t packetType) String() string {
	switch t {
	case packetTypeTemperature:
		return "Temperature"
	case packetTypeWaterLevel:
		return "WaterLevel"
	case packetTypeGSMStatus:
		return "GsmStatus"
	default:
		return "Unknown"
	}
}
