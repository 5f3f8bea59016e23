package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/grabble/internal/api/apierr"
	"github.com/mcoot/grabble/internal/api/middleware"
	"github.com/mcoot/grabble/internal/api/request"
	"github.com/mcoot/grabble/internal/api/response"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/bot"
	"github.com/mcoot/grabble/internal/services/room"
)

// BotService is the set of bot operations the handlers use
type BotService interface {
	AddBotToRoom(ctx context.Context, code model.RoomCode, requester model.UserID, strategy string) (*model.User, error)
	RemoveBotFromRoom(ctx context.Context, code model.RoomCode, requester, botID model.UserID) error
	ProcessBotActions(ctx context.Context, code model.RoomCode) ([]bot.BotAction, error)
}

// RoomHandler handles room membership endpoints
type RoomHandler struct {
	rooms room.ServiceInterface
	bots  BotService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms room.ServiceInterface, bots BotService) *RoomHandler {
	return &RoomHandler{
		rooms: rooms,
		bots:  bots,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateRoomRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	rm, err := h.rooms.CreateRoom(r.Context(), *user, room.CreateOptions{
		TargetScore: req.TargetScore,
		Password:    req.Password,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(rm))
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	rm, err := h.rooms.GetRoom(r.Context(), roomCode(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.JoinRoomRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	rm, err := h.rooms.JoinRoom(r.Context(), roomCode(r), *user, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Leave handles POST /api/v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	if err := h.rooms.LeaveRoom(r.Context(), roomCode(r), user.ID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Ready handles POST /api/v1/rooms/{code}/ready
func (h *RoomHandler) Ready(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	req := request.ReadyRequest{Ready: true}
	if err := decodeOptionalBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	rm, err := h.rooms.SetReady(r.Context(), roomCode(r), user.ID, req.Ready)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// UpdateConfig handles PATCH /api/v1/rooms/{code}/config
func (h *RoomHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.UpdateConfigRequest
	if err := decodeBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	rm, err := h.rooms.UpdateConfig(r.Context(), roomCode(r), user.ID, model.RoomConfig{TargetScore: req.TargetScore})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// AddBot handles POST /api/v1/rooms/{code}/bots
func (h *RoomHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := roomCode(r)

	req := request.AddBotRequest{Strategy: model.BotStrategyGreedy}
	if err := decodeOptionalBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if _, err := h.bots.AddBotToRoom(r.Context(), code, user.ID, req.Strategy); err != nil {
		apierr.WriteError(w, err)
		return
	}

	rm, err := h.rooms.GetRoom(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(rm))
}

// RemoveBot handles DELETE /api/v1/rooms/{code}/bots/{bot_id}
func (h *RoomHandler) RemoveBot(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	botID := model.UserID(mux.Vars(r)["bot_id"])

	if err := h.bots.RemoveBotFromRoom(r.Context(), roomCode(r), user.ID, botID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}
