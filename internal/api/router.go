package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/grabble/internal/api/handler"
	"github.com/mcoot/grabble/internal/api/middleware"
	"github.com/mcoot/grabble/internal/services/auth"
	"github.com/mcoot/grabble/internal/services/room"
	"github.com/mcoot/grabble/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	RoomService room.ServiceInterface
	BotService  handler.BotService
	Dictionary  handler.DictionaryStatus
	HubManager  *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	roomHandler := handler.NewRoomHandler(cfg.RoomService, cfg.BotService)
	gameHandler := handler.NewGameHandler(cfg.RoomService, cfg.BotService, cfg.Logger)
	eventsHandler := handler.NewEventsHandler(cfg.RoomService, cfg.HubManager)
	healthHandler := handler.NewHealthHandler(cfg.RoomService, cfg.Dictionary)

	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Room routes (all require auth)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/ready", roomHandler.Ready).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/config", roomHandler.UpdateConfig).Methods(http.MethodPatch)
	rooms.HandleFunc("/{code}/bots", roomHandler.AddBot).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/bots/{bot_id}", roomHandler.RemoveBot).Methods(http.MethodDelete)
	rooms.HandleFunc("/{code}/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Game routes
	rooms.HandleFunc("/{code}/game", gameHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game", gameHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}/game/place", gameHandler.Place).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/remove", gameHandler.Remove).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/blank", gameHandler.Blank).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/validate", gameHandler.Validate).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/claim", gameHandler.Claim).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/swap", gameHandler.Swap).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/end-turn", gameHandler.EndTurn).Methods(http.MethodPost)

	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	return r
}
