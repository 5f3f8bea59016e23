package response

import (
	"time"

	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/auth"
	"github.com/mcoot/grabble/internal/services/bot"
)

// Player represents a user in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	IsBot       bool   `json:"is_bot,omitempty"`
	BotStrategy string `json:"bot_strategy,omitempty"`
}

// PlayerFromModel converts a model.User to a response Player
func PlayerFromModel(u *model.User) Player {
	return Player{
		ID:          string(u.ID),
		DisplayName: u.DisplayName,
		IsGuest:     u.IsGuest,
		IsBot:       u.IsBot,
		BotStrategy: u.BotStrategy,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.User),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// RoomMember represents a room member
type RoomMember struct {
	Player Player          `json:"player"`
	Ready  bool            `json:"ready"`
	IsHost bool            `json:"is_host"`
	Seat   *model.PlayerID `json:"seat,omitempty"`
}

// RoomMemberFromModel converts model.RoomMember
func RoomMemberFromModel(m model.RoomMember) RoomMember {
	return RoomMember{
		Player: PlayerFromModel(&m.User),
		Ready:  m.Ready,
		IsHost: m.IsHost,
		Seat:   m.Seat,
	}
}

// Room represents a room in API responses. The password hash never leaves
// the server; HasPassword says whether joining needs one.
type Room struct {
	Code        string              `json:"code"`
	Status      string              `json:"status"`
	Config      model.RoomConfig    `json:"config"`
	HasPassword bool                `json:"has_password"`
	Members     []RoomMember        `json:"members"`
	GameHistory []model.GameSummary `json:"game_history"`
	TurnTiles   []model.Position    `json:"turn_tiles,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// RoomFromModel converts model.Room
func RoomFromModel(r *model.Room) Room {
	members := make([]RoomMember, len(r.Members))
	for i, m := range r.Members {
		members[i] = RoomMemberFromModel(m)
	}

	history := r.GameHistory
	if history == nil {
		history = []model.GameSummary{}
	}

	return Room{
		Code:        string(r.Code),
		Status:      string(r.Status),
		Config:      r.Config,
		HasPassword: r.HasPassword(),
		Members:     members,
		GameHistory: history,
		TurnTiles:   r.TurnTiles,
		CreatedAt:   r.CreatedAt,
	}
}

// Game is a game snapshot as seen by one player
type Game struct {
	*model.GameView
	TurnTiles []model.Position `json:"turn_tiles"`
	MySeat    *model.PlayerID  `json:"my_seat,omitempty"`
}

// GameFromModel builds the view of the room's game for the given user
func GameFromModel(r *model.Room, state *model.GameState, userID model.UserID) Game {
	var seat *model.PlayerID
	if m := r.GetMember(userID); m != nil && m.Seat != nil {
		seat = m.Seat.Ptr()
	}

	turnTiles := r.TurnTiles
	if turnTiles == nil {
		turnTiles = []model.Position{}
	}

	return Game{
		GameView:  model.NewGameView(state, seat),
		TurnTiles: turnTiles,
		MySeat:    seat,
	}
}

// PlaceResponse is the response after placing tiles
type PlaceResponse struct {
	Positions []model.Position `json:"positions"`
	Game      Game             `json:"game"`
}

// ClaimResponse is the response after claiming words. When Result is
// invalid the turn continues and nothing was scored.
type ClaimResponse struct {
	Result     model.ClaimBatchResult `json:"result"`
	Finished   bool                   `json:"finished"`
	Game       Game                   `json:"game"`
	BotActions []bot.BotAction        `json:"bot_actions,omitempty"`
}

// TurnResponse is the response after an action that may hand the turn on
type TurnResponse struct {
	Game       Game            `json:"game"`
	BotActions []bot.BotAction `json:"bot_actions,omitempty"`
}

// Health is the response of the health endpoint
type Health struct {
	Status      string `json:"status"`
	ActiveRooms int    `json:"active_rooms"`
	Dictionary  bool   `json:"dictionary_loaded"`
}
