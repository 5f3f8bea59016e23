package handler

import (
	"net/http"

	"github.com/mcoot/grabble/internal/api/apierr"
	"github.com/mcoot/grabble/internal/api/response"
	"github.com/mcoot/grabble/internal/services/room"
)

// DictionaryStatus reports whether a word list has been loaded
type DictionaryStatus interface {
	IsLoaded() bool
}

// HealthHandler reports liveness
type HealthHandler struct {
	rooms      room.ServiceInterface
	dictionary DictionaryStatus
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(rooms room.ServiceInterface, dictionary DictionaryStatus) *HealthHandler {
	return &HealthHandler{
		rooms:      rooms,
		dictionary: dictionary,
	}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.rooms.ActiveRoomCount(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Health{
		Status:      "ok",
		ActiveRooms: count,
		Dictionary:  h.dictionary != nil && h.dictionary.IsLoaded(),
	})
}
