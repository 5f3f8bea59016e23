package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventRoomUpdate   EventType = "room-update"
	EventGameStarted  EventType = "game-started"
	EventTilesPlaced  EventType = "tiles-placed"
	EventTileRemoved  EventType = "tile-removed"
	EventBlankSet     EventType = "blank-set"
	EventWordsClaimed EventType = "words-claimed"
	EventTilesSwapped EventType = "tiles-swapped"
	EventTurnChanged  EventType = "turn-changed"
	EventGameEnded    EventType = "game-ended"
)

// Event is broadcast to everyone in a room after a change
type Event struct {
	Type      EventType  `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	RoomCode  RoomCode   `json:"room_code"`
	UserID    UserID     `json:"user_id,omitempty"` // The user who triggered the event
	Payload   any        `json:"payload,omitempty"`
	Game      *GameState `json:"game,omitempty"` // Snapshot after the change
}

// TilesPlacedPayload lists where a batch of tiles landed after gravity
type TilesPlacedPayload struct {
	PlayerID  PlayerID   `json:"player_id"`
	Positions []Position `json:"positions"`
}

// TileRemovedPayload describes a tile taken back into a rack
type TileRemovedPayload struct {
	PlayerID PlayerID `json:"player_id"`
	Position Position `json:"position"`
	Tile     Tile     `json:"tile"`
}

// BlankSetPayload describes a blank tile's chosen letter
type BlankSetPayload struct {
	Position Position `json:"position"`
	Letter   string   `json:"letter"`
}

// WordsClaimedPayload carries the result of a successful claim batch
type WordsClaimedPayload struct {
	PlayerID PlayerID         `json:"player_id"`
	Result   ClaimBatchResult `json:"result"`
}

// TilesSwappedPayload records how many tiles a player swapped
type TilesSwappedPayload struct {
	PlayerID PlayerID `json:"player_id"`
	Count    int      `json:"count"`
}

// TurnChangedPayload names the player whose turn it now is
type TurnChangedPayload struct {
	CurrentPlayerID PlayerID `json:"current_player_id"`
}

// GameEndedPayload carries the final standings
type GameEndedPayload struct {
	WinnerID *PlayerID   `json:"winner_id,omitempty"`
	Summary  GameSummary `json:"summary"`
}
