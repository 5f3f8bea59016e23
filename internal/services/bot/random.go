package bot

import (
	"context"

	"github.com/mcoot/grabble/internal/dependencies/random"
	"github.com/mcoot/grabble/internal/model"
)

// maxRandomTiles caps how many tiles the random bot drops in one turn
const maxRandomTiles = 3

// RandomStrategy drops a few random rack tiles into random columns and
// claims whatever words happen to form
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseMove picks between one and three distinct rack tiles and a column
// with room for each
func (s *RandomStrategy) ChooseMove(_ context.Context, state *model.GameState, seat model.PlayerID) Move {
	player := state.Player(seat)
	if player == nil || len(player.Rack) == 0 {
		return Move{}
	}

	indices := make([]int, len(player.Rack))
	for i := range indices {
		indices[i] = i
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := s.random.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}

	count := 1 + s.random.Intn(min(maxRandomTiles, len(indices)))
	space := columnSpace(&state.Board)

	var placements []model.RackPlacement
	for _, idx := range indices[:count] {
		var open []int
		for col, n := range space {
			if n > 0 {
				open = append(open, col)
			}
		}
		if len(open) == 0 {
			break
		}
		col := random.Pick(s.random, open)
		space[col]--
		placements = append(placements, model.RackPlacement{Column: col, TileIndex: idx})
	}

	return Move{Placements: placements}
}

var _ Strategy = (*RandomStrategy)(nil)
