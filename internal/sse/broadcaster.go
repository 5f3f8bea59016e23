package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/grabble/internal/model"
)

// Broadcaster publishes room events to the room's SSE hub
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// wireEvent is an event as sent to clients. Everyone in a room shares one
// stream, so the snapshot is the public view with no racks.
type wireEvent struct {
	model.Event
	Game *model.GameView `json:"game,omitempty"`
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends the event to everyone watching its room. Rooms nobody is
// watching have no hub and the event is dropped.
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.RoomCode)
	if hub == nil {
		return
	}

	wire := wireEvent{Event: event}
	if event.Game != nil {
		wire.Game = model.NewGameView(event.Game, nil)
	}

	data, err := json.Marshal(wire)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("room", string(event.RoomCode)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))
}
