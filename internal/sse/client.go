package sse

import (
	"net/http"
	"time"

	"github.com/mcoot/grabble/internal/model"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents a connected SSE client
type Client struct {
	hub         *Hub
	userID      model.UserID
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a new SSE client
func NewClient(hub *Hub, userID model.UserID) *Client {
	return &Client{
		hub:         hub,
		userID:      userID,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ServeSSE streams the hub's events to the response until the client
// disconnects or the hub closes
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, userID model.UserID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(hub, userID)
	if !hub.Register(client) {
		return
	}
	defer hub.Unregister(client)

	_, _ = w.Write(encodeFrame("connected", `{"status":"connected"}`))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
