package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Frame is the unit exchanged over the socket in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// BroadcastChannel reaches every connected client.
const BroadcastChannel = "new_notification"

// Relay forwards locally published events to other server instances.
type Relay interface {
	Forward(channel string, payload []byte) error
}

// Hub tracks connected clients, the channels they listen on and the chat
// rooms they have joined.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	channels map[string]map[*Client]struct{}
	rooms    map[string]map[*Client]struct{}

	relay Relay
	id    string
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		channels: make(map[string]map[*Client]struct{}),
		rooms:    make(map[string]map[*Client]struct{}),
		id:       uuid.NewString(),
	}
}

// SetRelay installs a cross-instance relay. Call before serving traffic.
func (h *Hub) SetRelay(r Relay) { h.relay = r }

// InstanceID identifies this hub to relays so it can skip its own echoes.
func (h *Hub) InstanceID() string { return h.id }

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for name, set := range h.channels {
		delete(set, c)
		if len(set) == 0 {
			delete(h.channels, name)
		}
	}
	for name, set := range h.rooms {
		delete(set, c)
		if len(set) == 0 {
			delete(h.rooms, name)
		}
	}
	close(c.send)
}

func add(m map[string]map[*Client]struct{}, key string, c *Client) {
	set, ok := m[key]
	if !ok {
		set = make(map[*Client]struct{})
		m[key] = set
	}
	set[c] = struct{}{}
}

func remove(m map[string]map[*Client]struct{}, key string, c *Client) {
	if set, ok := m[key]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(m, key)
		}
	}
}

func (h *Hub) subscribe(c *Client, channels []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range channels {
		if ch != "" && ch != BroadcastChannel {
			add(h.channels, ch, c)
		}
	}
}

func (h *Hub) unsubscribe(c *Client, channels []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range channels {
		remove(h.channels, ch, c)
	}
}

func (h *Hub) join(c *Client, room string) {
	h.mu.Lock()
	add(h.rooms, room, c)
	h.mu.Unlock()
}

func (h *Hub) leave(c *Client, room string) {
	h.mu.Lock()
	remove(h.rooms, room, c)
	h.mu.Unlock()
}

// Publish pushes payload to every live subscriber of channel and reports
// whether at least one local client accepted it. Nothing is queued.
func (h *Hub) Publish(channel string, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).WithField("channel", channel).Error("realtime: encoding payload")
		return false
	}
	if h.relay != nil {
		if err := h.relay.Forward(channel, data); err != nil {
			log.WithError(err).WithField("channel", channel).Warn("realtime: relay forward failed")
		}
	}
	return h.Deliver(channel, data)
}

// Deliver sends an already encoded payload to local subscribers only.
func (h *Hub) Deliver(channel string, data []byte) bool {
	frame, err := json.Marshal(Frame{Event: channel, Data: data})
	if err != nil {
		return false
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := h.channels[channel]
	if channel == BroadcastChannel {
		targets = h.clients
	}
	delivered := false
	for c := range targets {
		if c.enqueue(frame) {
			delivered = true
		}
	}
	return delivered
}

// relayToRoom sends a chat frame to everyone in room except the sender.
func (h *Hub) relayToRoom(from *Client, room string, data json.RawMessage) int {
	frame, err := json.Marshal(Frame{Event: "receive_message", Data: data})
	if err != nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.rooms[room] {
		if c != from && c.enqueue(frame) {
			n++
		}
	}
	return n
}

// Stats returns the number of connected clients and open rooms.
func (h *Hub) Stats() (clients, rooms int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients), len(h.rooms)
}
