package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/grabble/internal/api/apierr"
	"github.com/mcoot/grabble/internal/api/middleware"
	"github.com/mcoot/grabble/internal/api/request"
	"github.com/mcoot/grabble/internal/api/response"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/bot"
	"github.com/mcoot/grabble/internal/services/room"
)

// GameHandler handles in-game endpoints
type GameHandler struct {
	rooms  room.ServiceInterface
	bots   BotService
	logger *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(rooms room.ServiceInterface, bots BotService, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		rooms:  rooms,
		bots:   bots,
		logger: logger.With(slog.String("component", "game-handler")),
	}
}

// Start handles POST /api/v1/rooms/{code}/game
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := roomCode(r)

	if _, err := h.rooms.StartGame(r.Context(), code, user.ID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	actions := h.processBotActions(r.Context(), code)
	h.writeTurn(w, r, http.StatusCreated, actions)
}

// Get handles GET /api/v1/rooms/{code}/game
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	game, err := h.gameView(r.Context(), roomCode(r), user.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, game)
}

// Place handles POST /api/v1/rooms/{code}/game/place
func (h *GameHandler) Place(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := roomCode(r)

	var req request.PlaceRequest
	if err := decodeBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}
	if len(req.Placements) == 0 {
		apierr.WriteError(w, apierr.NewInvalidRequestError("placements are required"))
		return
	}

	placements := make([]model.RackPlacement, len(req.Placements))
	for i, p := range req.Placements {
		placements[i] = model.RackPlacement{Column: p.Column, TileIndex: p.TileIndex}
	}

	result, err := h.rooms.PlaceTiles(r.Context(), code, user.ID, placements)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	game, err := h.gameView(r.Context(), code, user.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlaceResponse{Positions: result.Positions, Game: game})
}

// Remove handles POST /api/v1/rooms/{code}/game/remove
func (h *GameHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.PositionRequest
	if err := decodeBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	pos := model.Position{X: req.X, Y: req.Y}
	if _, err := h.rooms.RemoveTile(r.Context(), roomCode(r), user.ID, pos); err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.writeTurn(w, r, http.StatusOK, nil)
}

// Blank handles POST /api/v1/rooms/{code}/game/blank
func (h *GameHandler) Blank(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.BlankRequest
	if err := decodeBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	pos := model.Position{X: req.X, Y: req.Y}
	if _, err := h.rooms.SetBlankLetter(r.Context(), roomCode(r), user.ID, pos, req.Letter); err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.writeTurn(w, r, http.StatusOK, nil)
}

// Validate handles POST /api/v1/rooms/{code}/game/validate.
// It checks claims without scoring them or ending the turn.
func (h *GameHandler) Validate(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	claims, err := decodeClaims(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	result, err := h.rooms.ValidateClaims(r.Context(), roomCode(r), user.ID, claims)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// Claim handles POST /api/v1/rooms/{code}/game/claim. A valid batch scores
// and ends the turn; an invalid one changes nothing and the turn goes on.
func (h *GameHandler) Claim(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := roomCode(r)

	claims, err := decodeClaims(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	outcome, err := h.rooms.ClaimWords(r.Context(), code, user.ID, claims)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var actions []bot.BotAction
	if outcome.Result.Valid && !outcome.Finished {
		actions = h.processBotActions(r.Context(), code)
	}

	game, err := h.gameView(r.Context(), code, user.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ClaimResponse{
		Result:     outcome.Result,
		Finished:   outcome.Finished,
		Game:       game,
		BotActions: actions,
	})
}

// Swap handles POST /api/v1/rooms/{code}/game/swap
func (h *GameHandler) Swap(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := roomCode(r)

	var req request.SwapRequest
	if err := decodeBody(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}
	if len(req.TileIndices) == 0 {
		apierr.WriteError(w, apierr.NewInvalidRequestError("tile_indices are required"))
		return
	}

	if _, err := h.rooms.SwapTiles(r.Context(), code, user.ID, req.TileIndices); err != nil {
		apierr.WriteError(w, err)
		return
	}

	actions := h.processBotActions(r.Context(), code)
	h.writeTurn(w, r, http.StatusOK, actions)
}

// EndTurn handles POST /api/v1/rooms/{code}/game/end-turn
func (h *GameHandler) EndTurn(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	code := roomCode(r)

	if _, err := h.rooms.EndTurn(r.Context(), code, user.ID); err != nil {
		apierr.WriteError(w, err)
		return
	}

	actions := h.processBotActions(r.Context(), code)
	h.writeTurn(w, r, http.StatusOK, actions)
}

// gameView loads the room's game as the given user sees it
func (h *GameHandler) gameView(ctx context.Context, code model.RoomCode, userID model.UserID) (response.Game, error) {
	rm, err := h.rooms.GetRoom(ctx, code)
	if err != nil {
		return response.Game{}, err
	}
	if rm.Game == nil {
		return response.Game{}, model.ErrGameNotInProgress
	}
	return response.GameFromModel(rm, rm.Game, userID), nil
}

func (h *GameHandler) writeTurn(w http.ResponseWriter, r *http.Request, status int, actions []bot.BotAction) {
	user := middleware.MustGetUser(r.Context())

	game, err := h.gameView(r.Context(), roomCode(r), user.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, status, response.TurnResponse{Game: game, BotActions: actions})
}

// processBotActions plays any bot turns that follow a human action. Bot
// failures are logged; the human's action has already succeeded.
func (h *GameHandler) processBotActions(ctx context.Context, code model.RoomCode) []bot.BotAction {
	if h.bots == nil {
		return nil
	}

	actions, err := h.bots.ProcessBotActions(ctx, code)
	if err != nil {
		h.logger.Warn("bot actions failed",
			slog.String("room", string(code)),
			slog.Int("actions", len(actions)),
			slog.Any("error", err))
	}
	return actions
}

func decodeClaims(r *http.Request) ([][]model.Position, error) {
	var req request.ClaimRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	claims := make([][]model.Position, len(req.Claims))
	for i, c := range req.Claims {
		positions := make([]model.Position, len(c.Positions))
		for j, p := range c.Positions {
			positions[j] = model.Position{X: p.X, Y: p.Y}
		}
		claims[i] = positions
	}
	return claims, nil
}
