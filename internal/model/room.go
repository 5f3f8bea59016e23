package model

import "time"

// RoomCode is a short human-readable identifier for joining rooms
type RoomCode string

// RoomStatus is the current state of a room
type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "waiting" // No game in progress
	RoomStatusPlaying RoomStatus = "playing" // Game currently active
)

// RoomMember is a user's membership in a room
type RoomMember struct {
	User     User      `json:"user"`
	Ready    bool      `json:"ready"`
	IsHost   bool      `json:"is_host"`
	Seat     *PlayerID `json:"seat,omitempty"` // nil unless seated in the current game
	JoinedAt time.Time `json:"joined_at"`
}

// RoomConfig holds configurable settings for games in this room
type RoomConfig struct {
	TargetScore int `json:"target_score"`
}

// DefaultRoomConfig returns the default room configuration
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		TargetScore: DefaultTargetScore,
	}
}

// PlayerScore is a seat's final standing
type PlayerScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// GameSummary is a lightweight record of a completed game
type GameSummary struct {
	Scores      []PlayerScore `json:"scores"`
	Winner      string        `json:"winner"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Room is a group of users who play games together
type Room struct {
	Code         RoomCode      `json:"code"`
	Status       RoomStatus    `json:"status"`
	Members      []RoomMember  `json:"members"`
	Config       RoomConfig    `json:"config"`
	PasswordHash string        `json:"password_hash,omitempty"`
	Game         *GameState    `json:"game,omitempty"`
	GameHistory  []GameSummary `json:"game_history"`

	// TurnTiles are the board positions of tiles placed during the current
	// turn, kept in step with gravity
	TurnTiles []Position `json:"turn_tiles"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPassword returns true if joining the room requires a password
func (r *Room) HasPassword() bool {
	return r.PasswordHash != ""
}

// GetHost returns the current host member, or nil if none
func (r *Room) GetHost() *RoomMember {
	for i := range r.Members {
		if r.Members[i].IsHost {
			return &r.Members[i]
		}
	}
	return nil
}

// GetMember returns the member with the given user ID, or nil if not found
func (r *Room) GetMember(userID UserID) *RoomMember {
	for i := range r.Members {
		if r.Members[i].User.ID == userID {
			return &r.Members[i]
		}
	}
	return nil
}

// MemberForSeat returns the member sitting in the given seat, or nil
func (r *Room) MemberForSeat(seat PlayerID) *RoomMember {
	for i := range r.Members {
		if s := r.Members[i].Seat; s != nil && *s == seat {
			return &r.Members[i]
		}
	}
	return nil
}

// AllReady returns true if every member is ready
func (r *Room) AllReady() bool {
	for _, m := range r.Members {
		if !m.Ready {
			return false
		}
	}
	return true
}

// IsTurnTile returns true if the position holds a tile placed this turn
func (r *Room) IsTurnTile(pos Position) bool {
	for _, p := range r.TurnTiles {
		if p == pos {
			return true
		}
	}
	return false
}
