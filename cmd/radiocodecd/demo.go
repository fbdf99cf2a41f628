package main

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/kstaniek/radiocodecd/internal/codec"
	"github.com/kstaniek/radiocodecd/internal/fanout"
	"github.com/kstaniek/radiocodecd/internal/message"
	"github.com/kstaniek/radiocodecd/internal/metrics"
	"github.com/kstaniek/radiocodecd/internal/rxassemble"
	"github.com/kstaniek/radiocodecd/internal/simchannel"
	"github.com/kstaniek/radiocodecd/internal/txsegment"
)

// demoMessageVersion maps the --demo-version flag to the message framing it
// selects.
func demoMessageVersion(v string) message.Version {
	switch v {
	case "legacy":
		return message.VersionLegacyLaso
	case "naked":
		return message.VersionNaked
	default:
		return message.VersionV2
	}
}

// buildDemoMessage constructs a synthetic Message carrying seq as its first
// payload byte (so a log line can tell bursts apart) followed by filler.
func buildDemoMessage(cfg *appConfig, seq byte) message.Message {
	var m message.Message
	m.Version = demoMessageVersion(cfg.demoVersion)
	m.SourceAddress = uint32(cfg.demoSourceAddress)
	if m.Version != message.VersionNaked && m.Version != message.VersionNakedShort {
		m.PacketType = uint32(cfg.demoPacketType)
		m.HasPacketType = true
	}
	m.Push(seq)
	for i := 1; i < cfg.demoPayloadLen; i++ {
		m.Push(byte(i))
	}
	return m
}

// bitErrorInjector returns a simchannel.ErrorInjector that flips one random
// bit per burst with probability rate, or nil if rate is zero (meaning "no
// corruption", the identity injector).
func bitErrorInjector(rate float64, rng *rand.Rand, mu *sync.Mutex) simchannel.ErrorInjector {
	if rate <= 0 {
		return nil
	}
	return func(b simchannel.Burst) simchannel.Burst {
		mu.Lock()
		roll := rng.Float64()
		n := rng.Intn(256)
		mu.Unlock()
		if roll > rate {
			return b
		}
		b[n/8] ^= 1 << uint(n%8)
		return b
	}
}

// rxMetricLabel maps rxassemble's short decode-error labels to the
// metrics package's rx_* label constants, keeping the two packages'
// vocabularies decoupled (rxassemble never imports metrics).
func rxMetricLabel(label string) string {
	switch label {
	case "out_of_order":
		return metrics.ErrRxOutOfOrder
	case "unexpected":
		return metrics.ErrRxUnexpected
	case "invalid":
		return metrics.ErrRxInvalid
	case "crc_failed":
		return metrics.ErrRxCRCFailed
	case "full":
		return metrics.ErrRxFull
	case "unknown_packet":
		return metrics.ErrRxUnknown
	case "raw_needs_decoding":
		return metrics.ErrRxRawPending
	case "internal_only":
		return metrics.ErrRxInternal
	default:
		return metrics.ErrRxOther
	}
}

// demoTransmitter periodically builds a synthetic message, segments it into
// packets, and feeds the encoded bursts into the channel at demo-interval.
func demoTransmitter(ctx context.Context, cfg *appConfig, ch *simchannel.Channel, l *slog.Logger, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(cfg.demoInterval)
		defer t.Stop()
		var seq byte
		for {
			select {
			case <-t.C:
				msg := buildDemoMessage(cfg, seq)
				seq++
				if msg.HasPacketType {
					l.Debug("demo_message_built", "seq", seq, "packet_type", packetType(msg.PacketType).String())
				}
				sender := txsegment.NewSender(msg)
				for sender.DataToSend() {
					p := sender.Packet()
					burst := codec.EncodeForTransmit(p)
					metrics.IncPacketsEncoded()
					if err := ch.Send(burst); err != nil {
						l.Warn("demo_send_dropped", "error", err)
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// newDemoChannel wires a simchannel.Channel whose OnDeliver hook drives a
// single rxassemble.Assembler across consecutive bursts and broadcasts every
// fully reassembled message to hub.
func newDemoChannel(ctx context.Context, cfg *appConfig, hub *fanout.Hub, l *slog.Logger) *simchannel.Channel {
	asm := rxassemble.NewAssembler()
	var asmMu sync.Mutex

	rng := rand.New(rand.NewSource(1))
	var rngMu sync.Mutex
	inject := bitErrorInjector(cfg.bitErrorRate, rng, &rngMu)

	hooks := simchannel.Hooks{
		OnDrop: func() error {
			l.Warn("demo_channel_overflow")
			return nil
		},
		OnDeliver: func(d codec.Decoder) {
			result := d.Result()
			metrics.IncPacketsDecoded()
			metrics.AddGolayCorrected(result.Errors)
			metrics.AddGolayParityViolations(result.ParityErrors)

			asmMu.Lock()
			defer asmMu.Unlock()
			if err := asm.Append(result); err != nil {
				metrics.IncMalformed()
				metrics.IncError(rxMetricLabel(rxassemble.MetricLabel(err)))
				l.Debug("demo_decode_rejected", "error", err)
				*asm = *rxassemble.NewAssembler()
				return
			}
			if asm.Finished() {
				metrics.IncMessageAssembled()
				if hub != nil {
					hub.Broadcast(asm.Msg)
				}
				*asm = *rxassemble.NewAssembler()
			}
		},
	}
	return simchannel.NewChannel(ctx, 64, inject, hooks)
}
