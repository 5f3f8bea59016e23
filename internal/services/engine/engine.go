// Package engine owns the mutable state of a single game and implements its
// rules: gravity placement, tile removal, word claims, racks, turns and win
// detection. An Engine is not safe for concurrent use; callers serialize
// access per game.
package engine

import (
	"github.com/mcoot/grabble/internal/dependencies/random"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/dictionary"
	"github.com/mcoot/grabble/internal/services/scoring"
)

// Engine applies game rules to one GameState
type Engine struct {
	state      *model.GameState
	dictionary dictionary.Lookup
	scoring    *scoring.Service
	random     random.Random
}

// New creates an Engine that takes ownership of state
func New(state *model.GameState, dict dictionary.Lookup, rnd random.Random) *Engine {
	return &Engine{
		state:      state,
		dictionary: dict,
		scoring:    scoring.New(dict),
		random:     rnd,
	}
}

// State returns a deep copy of the current game state
func (e *Engine) State() *model.GameState {
	return e.state.Clone()
}

// Board returns a copy of the current board
func (e *Engine) Board() model.Board {
	return e.state.Board.Clone()
}

// CreateTileBag returns the standard tile set, shuffled
func CreateTileBag(rnd random.Random) []model.Tile {
	bag := model.StandardTiles()
	Shuffle(bag, rnd)
	return bag
}

// Shuffle reorders tiles in place with a Fisher-Yates shuffle
func Shuffle(tiles []model.Tile, rnd random.Random) {
	for i := len(tiles) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
}

func (e *Engine) player(id model.PlayerID) (*model.Player, error) {
	p := e.state.Player(id)
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}
	return p, nil
}
