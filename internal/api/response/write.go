package response

import (
	"encoding/json"
	"net/http"
)

// JSON encodes a room, game or player payload with the given status.
// Game views carry the caller's own rack, so no response may be cached.
func JSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// NoContent answers logout, leaving a room and removing a bot
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
