// Package codec wires the frame sub-packages into the two whole-burst
// operations a caller actually needs: encoding a packet for transmit, and
// decoding a received 32-byte burst with two cooperative suspension points.
package codec

import "github.com/kstaniek/radiocodecd/internal/frame"

// EncodeForTransmit runs the full forward pipeline (Golay, interleave,
// DC-balance) producing the 32-byte on-air burst for p.
func EncodeForTransmit(p frame.PacketData) [32]byte {
	return p.EncodeForTransmit()
}

// decodeStage is the explicit poll-style state object realizing the
// orchestrator's two cooperative suspension points: between the DC-strip and
// the deinterleave, and between the deinterleave and the Golay decode. A
// single-threaded scheduler drives it forward by calling Resume until Done
// reports true; it carries no state across a suspension beyond the byte
// buffers threaded through the pipeline.
type decodeStage int

const (
	stageStripped decodeStage = iota
	stageDeinterleaved
	stageDone
)

// Decoder drives one burst through the decode pipeline across cooperative
// suspension points.
type Decoder struct {
	stage       decodeStage
	interleaved [24]byte
	golayBuf    [24]byte
	result      frame.GolayDecoderResult
}

// NewDecoder starts decoding the given 32-byte on-air burst, performing the
// C1 DC-strip eagerly (it runs before the first suspension point).
func NewDecoder(burst [32]byte) *Decoder {
	return &Decoder{
		stage:       stageStripped,
		interleaved: frame.DCBalanceInverse(burst),
	}
}

// Done reports whether the result is ready.
func (d *Decoder) Done() bool {
	return d.stage == stageDone
}

// Resume advances the decoder by one cooperative step. Call it repeatedly,
// yielding control back to the scheduler between calls, until Done reports
// true; Result is then valid.
func (d *Decoder) Resume() {
	switch d.stage {
	case stageStripped:
		d.golayBuf = frame.InterleaveInverse(d.interleaved)
		d.stage = stageDeinterleaved
	case stageDeinterleaved:
		d.result = frame.GolayDecode(d.golayBuf)
		d.stage = stageDone
	}
}

// Result returns the decoded packet and its Golay error counters. Valid
// only once Done reports true.
func (d *Decoder) Result() frame.GolayDecoderResult {
	return d.result
}

// DecodeWithBreaks runs the whole pipeline to completion without a
// scheduler, for callers (tests, synchronous simulations) that don't need
// the cooperative suspension points.
func DecodeWithBreaks(burst [32]byte) frame.GolayDecoderResult {
	d := NewDecoder(burst)
	for !d.Done() {
		d.Resume()
	}
	return d.Result()
}
