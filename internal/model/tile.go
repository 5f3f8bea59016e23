package model

// BlankLetter is the letter carried by a blank tile
const BlankLetter = " "

// RackSize is the number of tiles a player holds after refilling
const RackSize = 7

// Tile is a single lettered tile, in a rack, the bag, or on the board
type Tile struct {
	Letter string `json:"letter"`
	Points int    `json:"points"`

	// Owner is set once the tile is placed on the board
	Owner *PlayerID `json:"owner,omitempty"`

	// BlankAssigned is the letter chosen for a blank tile
	BlankAssigned string `json:"blank_assigned,omitempty"`
	BlankLocked   bool   `json:"blank_locked,omitempty"`
}

// IsBlank returns true for blank tiles
func (t Tile) IsBlank() bool {
	return t.Letter == BlankLetter
}

// DisplayLetter returns the letter the tile reads as on the board
func (t Tile) DisplayLetter() string {
	if t.IsBlank() && t.BlankAssigned != "" {
		return t.BlankAssigned
	}
	return t.Letter
}

// Clone returns a copy that shares no pointers with t
func (t Tile) Clone() Tile {
	out := t
	if t.Owner != nil {
		owner := *t.Owner
		out.Owner = &owner
	}
	return out
}

// Unplaced returns the tile as it would sit in a rack: no owner and no
// blank assignment
func (t Tile) Unplaced() Tile {
	return Tile{Letter: t.Letter, Points: t.Points}
}

// LetterInfo holds the bag count and point value of a letter
type LetterInfo struct {
	Count  int
	Points int
}

// LetterDistribution is the standard 100-tile distribution
var LetterDistribution = map[string]LetterInfo{
	"A": {Count: 9, Points: 1},
	"E": {Count: 12, Points: 1},
	"I": {Count: 9, Points: 1},
	"O": {Count: 8, Points: 1},
	"U": {Count: 4, Points: 1},
	"L": {Count: 4, Points: 1},
	"N": {Count: 6, Points: 1},
	"S": {Count: 4, Points: 1},
	"T": {Count: 6, Points: 1},
	"R": {Count: 6, Points: 1},
	"D": {Count: 4, Points: 2},
	"G": {Count: 3, Points: 2},
	"B": {Count: 2, Points: 3},
	"C": {Count: 2, Points: 3},
	"M": {Count: 2, Points: 3},
	"P": {Count: 2, Points: 3},
	"F": {Count: 2, Points: 4},
	"H": {Count: 2, Points: 4},
	"V": {Count: 2, Points: 4},
	"W": {Count: 2, Points: 4},
	"Y": {Count: 2, Points: 4},
	"K": {Count: 1, Points: 5},
	"J": {Count: 1, Points: 8},
	"X": {Count: 1, Points: 8},
	"Q": {Count: 1, Points: 10},
	"Z": {Count: 1, Points: 10},

	BlankLetter: {Count: 2, Points: 0},
}

// distributionOrder fixes the iteration order so bag construction is
// deterministic before shuffling
const distributionOrder = "ABCDEFGHIJKLMNOPQRSTUVWXYZ "

// StandardTiles returns the unshuffled 100-tile set
func StandardTiles() []Tile {
	tiles := make([]Tile, 0, 100)
	for _, r := range distributionOrder {
		letter := string(r)
		info := LetterDistribution[letter]
		for i := 0; i < info.Count; i++ {
			tiles = append(tiles, Tile{Letter: letter, Points: info.Points})
		}
	}
	return tiles
}

// NewTile returns a rack tile for the letter with its standard point value
func NewTile(letter string) Tile {
	return Tile{Letter: letter, Points: LetterDistribution[letter].Points}
}

// IsLetter returns true if s is a single uppercase A-Z letter
func IsLetter(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}
