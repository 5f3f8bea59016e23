// Package sse streams room events to connected clients as server-sent
// events. Each room has its own hub; event data is JSON.
package sse

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/grabble/internal/model"
)

// Hub fans a room's events out to everyone watching it. It keeps the most
// recent frame so a client joining mid-game starts from the current board
// rather than waiting for the next move.
type Hub struct {
	code   model.RoomCode
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
	latest  []byte
	closed  bool
}

// NewHub creates the hub for a room
func NewHub(code model.RoomCode, logger *slog.Logger) *Hub {
	return &Hub{
		code:    code,
		logger:  logger.With(slog.String("room", string(code))),
		clients: make(map[*Client]struct{}),
	}
}

// Register adds a watcher and queues the room's latest frame for it.
// It returns false once the hub has been closed.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}

	h.logger.Info("sse watcher joined",
		slog.String("user_id", string(c.userID)),
		slog.Int("watchers", len(h.clients)))
	return true
}

// Unregister drops a watcher and ends its stream
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)

	h.logger.Info("sse watcher left",
		slog.String("user_id", string(c.userID)),
		slog.Duration("watched_for", time.Since(c.connectedAt)),
		slog.Int("watchers", len(h.clients)))
}

// BroadcastEvent frames an event and queues it for every watcher. A
// watcher whose buffer is full misses the frame; the next one carries a
// fresh snapshot.
func (h *Hub) BroadcastEvent(event, data string) {
	frame := encodeFrame(event, data)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.latest = frame

	var slow []model.UserID
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c.userID)
		}
	}
	if len(slow) > 0 {
		h.logger.Warn("sse frame skipped for slow watchers",
			slog.String("event", event),
			slog.Any("user_ids", slow))
	}
}

// Close ends every watcher's stream. Later calls do nothing.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		close(c.send)
	}
	count := len(h.clients)
	h.clients = nil
	h.logger.Info("sse hub closed", slog.Int("watchers", count))
}

// ClientCount returns the number of watchers
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HubManager holds a hub per watched room
type HubManager struct {
	mu     sync.Mutex
	hubs   map[model.RoomCode]*Hub
	logger *slog.Logger
}

func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.RoomCode]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the room's hub, opening one for the first watcher
func (m *HubManager) GetOrCreateHub(code model.RoomCode) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	hub, ok := m.hubs[code]
	if !ok {
		hub = NewHub(code, m.logger)
		m.hubs[code] = hub
	}
	return hub
}

// GetHub returns the room's hub, or nil if nobody has watched it
func (m *HubManager) GetHub(code model.RoomCode) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hubs[code]
}

// CleanupEmptyHubs closes hubs for rooms nobody is watching and returns how
// many it closed. The room's latest frame goes with its hub.
func (m *HubManager) CleanupEmptyHubs() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for code, hub := range m.hubs {
		if hub.ClientCount() > 0 {
			continue
		}
		hub.Close()
		delete(m.hubs, code)
		removed++
	}
	if removed > 0 {
		m.logger.Info("sse idle hubs closed", slog.Int("removed", removed))
	}
	return removed
}

// CloseAll ends every open stream so shutdown is not held up by watchers
func (m *HubManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for code, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, code)
	}
}
