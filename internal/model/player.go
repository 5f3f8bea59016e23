package model

// PlayerID identifies a seat within a single game. Seats are numbered from 0
// in the order player names were given at game creation.
type PlayerID int

// Ptr returns a pointer to a copy of id
func (id PlayerID) Ptr() *PlayerID {
	return &id
}

// MinPlayers and MaxPlayers bound the number of seats in a game
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// PlayerColors are assigned to seats in order
var PlayerColors = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A"}

// Player is a seat in a game
type Player struct {
	ID        PlayerID `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Score     int      `json:"score"`
	Rack      []Tile   `json:"rack"`
	TurnOrder int      `json:"turn_order"`
}

// Clone returns a deep copy of the player
func (p Player) Clone() Player {
	out := p
	out.Rack = make([]Tile, len(p.Rack))
	for i, t := range p.Rack {
		out.Rack[i] = t.Clone()
	}
	return out
}

// RackLetters returns the letters in the player's rack, in rack order
func (p Player) RackLetters() []string {
	letters := make([]string, len(p.Rack))
	for i, t := range p.Rack {
		letters[i] = t.Letter
	}
	return letters
}
