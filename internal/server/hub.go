package server

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/launchday/trivia/internal/game"
)

// Hub is the connection-level half of the broadcast router. It tracks every
// open websocket plus the two standing logical groups (admin and
// waiting/player) and fans events out to them. Per-identity unicast is not
// here: the room resolves a participant's current connection through the
// roster at send time.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	conns   map[game.Conn]struct{}
	admins  map[game.Conn]struct{}
	waiting map[game.Conn]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		conns:   make(map[game.Conn]struct{}),
		admins:  make(map[game.Conn]struct{}),
		waiting: make(map[game.Conn]struct{}),
	}
}

// Register adds a freshly upgraded connection to the unfiltered set. Group
// membership comes later, through an authenticated join.
func (h *Hub) Register(c game.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	total := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug("ws client connected", "conn", c.ID(), "total", total)
}

func (h *Hub) JoinAdmin(c game.Conn) {
	h.mu.Lock()
	h.admins[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("admin joined", "conn", c.ID())
}

func (h *Hub) JoinWaiting(c game.Conn) {
	h.mu.Lock()
	h.waiting[c] = struct{}{}
	h.mu.Unlock()
}

// IsAdmin reports membership in the privileged group right now. Admin-only
// calls check this at call time, not at join time, because membership is
// re-established after every reconnect.
func (h *Hub) IsAdmin(c game.Conn) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.admins[c]
	return ok
}

// Leave removes c from the unfiltered set and both groups.
func (h *Hub) Leave(c game.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	delete(h.admins, c)
	delete(h.waiting, c)
	h.mu.Unlock()
}

// Reset empties both standing groups. Physical connections stay open; the
// reset notice tells clients to return to the entry screen and rejoin.
func (h *Hub) Reset() {
	h.mu.Lock()
	h.admins = make(map[game.Conn]struct{})
	h.waiting = make(map[game.Conn]struct{})
	h.mu.Unlock()
}

func (h *Hub) ToAdmins(ev game.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.admins {
		c.Send(ev)
	}
}

func (h *Hub) ToWaiting(ev game.SharedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.waiting {
		c.Send(ev)
	}
}

// ToAll broadcasts to every open connection, addressed or not. Clients
// ignore events not meant for them; targeted group sends stay the
// authoritative delivery path.
func (h *Hub) ToAll(ev game.SharedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		c.Send(ev)
	}
}

// envelope is the wire shape of every server-to-client event.
type envelope struct {
	Type string     `json:"type"`
	Data game.Event `json:"data"`
}

// wsClient adapts one websocket connection to game.Conn. Sends go through a
// buffered channel drained by writePump, so a stalled client can never block
// a broadcast.
type wsClient struct {
	id     string
	conn   *websocket.Conn
	send   chan game.Event
	logger *slog.Logger
	once   sync.Once
}

func newWSClient(id string, conn *websocket.Conn, logger *slog.Logger) *wsClient {
	return &wsClient{
		id:     id,
		conn:   conn,
		send:   make(chan game.Event, 16),
		logger: logger,
	}
}

func (c *wsClient) ID() string { return c.id }

// Send queues ev for delivery, dropping it if the client's buffer is full.
func (c *wsClient) Send(ev game.Event) {
	select {
	case c.send <- ev:
	default:
		c.logger.Warn("dropping event for slow ws client", "conn", c.id, "event", ev.EventType())
	}
}

func (c *wsClient) close() {
	c.once.Do(func() { close(c.send) })
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for ev := range c.send {
		if err := c.conn.WriteJSON(envelope{Type: ev.EventType(), Data: ev}); err != nil {
			c.logger.Debug("ws write failed", "conn", c.id, "error", err)
			return
		}
	}
}
