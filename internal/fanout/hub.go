// Package fanout broadcasts successfully reassembled messages to a set of
// subscriber channels, one per connected telemetry client.
package fanout

import (
	"sync"

	"github.com/kstaniek/radiocodecd/internal/logging"
	"github.com/kstaniek/radiocodecd/internal/message"
	"github.com/kstaniek/radiocodecd/internal/metrics"
)

// BackpressurePolicy controls what a Hub does when a client's buffer is
// full: Drop silently skips that client for this broadcast, Kick closes the
// client's Closed channel so its owning connection tears down.
type BackpressurePolicy int

const (
	PolicyDrop BackpressurePolicy = iota
	PolicyKick
)

// Client is a subscriber's message queue plus its closed-signal channel.
type Client struct {
	Out       chan message.Message
	Closed    chan struct{}
	closeOnce sync.Once
}

// Close signals the client is closed (idempotent).
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Closed)
	})
}

// Hub fans a stream of reassembled messages out to every registered client.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	OutBufSize int
	Policy     BackpressurePolicy
}

// New creates a Hub with default settings.
func New() *Hub { return &Hub{clients: make(map[*Client]struct{})} }

// Add registers a client with the hub.
func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	prev := len(h.clients)
	h.clients[c] = struct{}{}
	cur := len(h.clients)
	h.mu.Unlock()
	if prev == 0 && cur == 1 {
		logging.L().Info("clients_first_connected")
	}
}

// Remove unregisters a client; safe to call multiple times.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	_, existed := h.clients[c]
	if existed {
		delete(h.clients, c)
	}
	cur := len(h.clients)
	h.mu.Unlock()
	select {
	case <-c.Closed:
	default:
		c.Close()
	}
	metrics.SetHubClients(cur)
	if existed && cur == 0 {
		logging.L().Info("clients_last_disconnected")
	}
}

// Broadcast sends a message to all connected clients, honoring the
// backpressure policy on any client whose buffer is full.
func (h *Hub) Broadcast(msg message.Message) {
	clients := h.Snapshot()
	metrics.SetBroadcastFanout(len(clients))
	metrics.SetHubClients(len(clients))
	if len(clients) > 0 {
		max := 0
		sum := 0
		for _, c := range clients {
			l := len(c.Out)
			if l > max {
				max = l
			}
			sum += l
		}
		metrics.SetQueueDepth(max, sum/len(clients))
	}
	for _, c := range clients {
		select {
		case c.Out <- msg:
		default:
			if h.Policy == PolicyKick {
				metrics.IncHubKick()
				c.Close() // signal writer to exit; server removes on disconnect
			} else {
				metrics.IncHubDrop()
			}
		}
	}
}

// Snapshot returns a slice copy of current clients (read-only use).
func (h *Hub) Snapshot() []*Client {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	return clients
}

// Count returns the number of active clients.
func (h *Hub) Count() int { h.mu.RLock(); n := len(h.clients); h.mu.RUnlock(); return n }
