package model

import (
	"sort"
	"strconv"
)

// DefaultTargetScore is the score needed to win when none is given
const DefaultTargetScore = 100

// GameStatus is the lifecycle phase of a game
type GameStatus string

const (
	GameStatusWaiting  GameStatus = "waiting"
	GameStatusPlaying  GameStatus = "playing"
	GameStatusFinished GameStatus = "finished"
)

// Bonus is a score multiplier earned by a claimed word
type Bonus string

const (
	BonusDiagonal   Bonus = "diagonal"
	BonusPalindrome Bonus = "palindrome"
	BonusEmordnilap Bonus = "emordnilap"
)

// ClaimedWord records a scored word. Positions keep the order they were
// submitted in.
type ClaimedWord struct {
	Word      string     `json:"word"`
	Positions []Position `json:"positions"`
	PlayerID  PlayerID   `json:"player_id"`
	Score     int        `json:"score"`
	Bonuses   []Bonus    `json:"bonuses"`
}

// Clone returns a deep copy of the claimed word
func (w ClaimedWord) Clone() ClaimedWord {
	out := w
	out.Positions = append([]Position(nil), w.Positions...)
	out.Bonuses = append([]Bonus(nil), w.Bonuses...)
	return out
}

// PositionKey returns a key identifying the word's set of cells regardless
// of the order they were selected in
func (w ClaimedWord) PositionKey() string {
	return PositionSetKey(w.Positions)
}

// GameState is the complete state of one game
type GameState struct {
	Board           Board         `json:"board"`
	Players         []Player      `json:"players"`
	CurrentPlayerID PlayerID      `json:"current_player_id"`
	TileBag         []Tile        `json:"tile_bag"`
	ClaimedWords    []ClaimedWord `json:"claimed_words"`
	TargetScore     int           `json:"target_score"`
	Status          GameStatus    `json:"status"`
	WinnerID        *PlayerID     `json:"winner_id,omitempty"`
}

// Clone returns a deep copy sharing no memory with s
func (s *GameState) Clone() *GameState {
	out := &GameState{
		Board:           s.Board.Clone(),
		CurrentPlayerID: s.CurrentPlayerID,
		TargetScore:     s.TargetScore,
		Status:          s.Status,
	}
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p.Clone()
	}
	out.TileBag = make([]Tile, len(s.TileBag))
	for i, t := range s.TileBag {
		out.TileBag[i] = t.Clone()
	}
	out.ClaimedWords = make([]ClaimedWord, len(s.ClaimedWords))
	for i, w := range s.ClaimedWords {
		out.ClaimedWords[i] = w.Clone()
	}
	if s.WinnerID != nil {
		out.WinnerID = s.WinnerID.Ptr()
	}
	return out
}

// Player returns the seat with the given id, or nil if there is none
func (s *GameState) Player(id PlayerID) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// CurrentPlayer returns the seat whose turn it is
func (s *GameState) CurrentPlayer() *Player {
	return s.Player(s.CurrentPlayerID)
}

// SortPositions sorts positions top to bottom, then left to right
func SortPositions(positions []Position) []Position {
	sorted := append([]Position(nil), positions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

// PositionSetKey builds an order-independent key for a set of positions,
// formatted as "x,y|x,y|..." over the sorted positions
func PositionSetKey(positions []Position) string {
	sorted := SortPositions(positions)
	key := make([]byte, 0, len(sorted)*4)
	for i, p := range sorted {
		if i > 0 {
			key = append(key, '|')
		}
		key = strconv.AppendInt(key, int64(p.X), 10)
		key = append(key, ',')
		key = strconv.AppendInt(key, int64(p.Y), 10)
	}
	return string(key)
}
