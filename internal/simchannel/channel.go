// Package simchannel is a software model of the noisy radio channel between
// the transmit segmenter and the receive assembler. It queues encoded
// 32-byte bursts, optionally corrupts them with a configurable bit-error
// mask, and hands each one to a consumer goroutine that drives the
// two-suspension-point decode orchestrator. It stands in for a real modem
// driver, which is an explicit non-goal.
package simchannel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/kstaniek/radiocodecd/internal/codec"
)

// Burst is one on-air 32-byte frame as produced by codec.EncodeForTransmit.
type Burst = [32]byte

// ErrChannelClosed is returned by Send once Close has been called.
var ErrChannelClosed = errors.New("simchannel: channel closed")

// Hooks customize Channel behavior so a caller can attach its own
// metrics/logging without duplicating the goroutine and buffer plumbing.
type Hooks struct {
	// OnDrop is called when the buffer is full; its returned error is
	// returned from Send. If nil, the overflow is silent.
	OnDrop func() error
	// OnDeliver is called after a (possibly corrupted) burst has been
	// decoded, with the orchestrator's result.
	OnDeliver func(codec.Decoder)
}

// ErrorInjector corrupts a burst before it reaches the decoder, e.g. by
// flipping a fixed set of bits to simulate channel noise. The identity
// injector (nil) delivers bursts unmodified.
type ErrorInjector func(Burst) Burst

// Channel funnels bursts through a single goroutine, decoding each one and
// invoking Hooks.OnDeliver with the result. Non-blocking enqueue: if the
// buffer is full, Send invokes OnDrop instead of blocking the producer.
type Channel struct {
	mu     sync.Mutex
	ch     chan Burst
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	inject ErrorInjector
	hooks  Hooks
	closed atomic.Bool
}

// NewChannel starts a Channel with a buffered queue of size buf. inject may
// be nil to deliver bursts unmodified.
func NewChannel(parent context.Context, buf int, inject ErrorInjector, hooks Hooks) *Channel {
	ctx, cancel := context.WithCancel(parent)
	c := &Channel{
		ch:     make(chan Burst, buf),
		ctx:    ctx,
		cancel: cancel,
		inject: inject,
		hooks:  hooks,
	}
	c.wg.Add(1)
	go c.loop()
	return c
}

func (c *Channel) loop() {
	defer c.wg.Done()
	for {
		select {
		case burst, ok := <-c.ch:
			if !ok {
				return
			}
			if c.inject != nil {
				burst = c.inject(burst)
			}
			d := codec.NewDecoder(burst)
			for !d.Done() {
				d.Resume()
			}
			if c.hooks.OnDeliver != nil {
				c.hooks.OnDeliver(*d)
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// Send queues a burst for asynchronous decoding, or returns the drop error
// if the buffer is full.
func (c *Channel) Send(b Burst) error {
	if c.closed.Load() {
		return ErrChannelClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed.Load() {
		return ErrChannelClosed
	}
	select {
	case c.ch <- b:
		return nil
	default:
		if c.hooks.OnDrop != nil {
			return c.hooks.OnDrop()
		}
		return nil
	}
}

// Close stops the worker and waits for it to exit.
func (c *Channel) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.cancel()
	c.mu.Lock()
	close(c.ch)
	c.mu.Unlock()
	c.wg.Wait()
}

// FlipBits returns an ErrorInjector that flips exactly the bits set in mask
// (each burst byte is XORed with the mask byte at the same index), the
// simplest way to exercise a fixed channel-error scenario deterministically.
func FlipBits(mask Burst) ErrorInjector {
	return func(b Burst) Burst {
		for i := range b {
			b[i] ^= mask[i]
		}
		return b
	}
}

// RandomSparseInjector returns an ErrorInjector that flips one bit per
// invocation at positions drawn from next (a caller-supplied source so the
// package stays free of time/rand, matching the library core's avoidance of
// hidden global state). next must return a value in [0, 256).
func RandomSparseInjector(next func() int) ErrorInjector {
	return func(b Burst) Burst {
		n := next() % 256
		b[n/8] ^= 1 << uint(n%8)
		return b
	}
}
