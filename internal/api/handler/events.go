package handler

import (
	"net/http"

	"github.com/mcoot/grabble/internal/api/apierr"
	"github.com/mcoot/grabble/internal/api/middleware"
	"github.com/mcoot/grabble/internal/services/room"
	"github.com/mcoot/grabble/internal/sse"
)

// EventsHandler streams room events over SSE
type EventsHandler struct {
	rooms      room.ServiceInterface
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(rooms room.ServiceInterface, hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{
		rooms:      rooms,
		hubManager: hubManager,
	}
}

// Stream handles GET /api/v1/rooms/{code}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := roomCode(r)

	if _, err := h.rooms.GetRoom(r.Context(), code); err != nil {
		apierr.WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)
	sse.ServeSSE(w, r, hub, user.ID)
}
