package bot

import (
	"context"

	"github.com/mcoot/grabble/internal/dependencies/random"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/dictionary"
	"github.com/mcoot/grabble/internal/services/engine"
)

// GreedyStrategy tries every rack tile in every column and plays the single
// drop whose claimable words score the most. With no scoring drop it swaps
// its whole rack.
type GreedyStrategy struct {
	dictionary dictionary.Lookup
	random     random.Random
}

// NewGreedyStrategy creates a new GreedyStrategy
func NewGreedyStrategy(dict dictionary.Lookup, rnd random.Random) *GreedyStrategy {
	return &GreedyStrategy{dictionary: dict, random: rnd}
}

// ChooseMove simulates each drop on a copy of the game
func (s *GreedyStrategy) ChooseMove(ctx context.Context, state *model.GameState, seat model.PlayerID) Move {
	player := state.Player(seat)
	if player == nil || len(player.Rack) == 0 {
		return Move{}
	}

	space := columnSpace(&state.Board)
	var best Move
	bestScore := 0

	for idx := range player.Rack {
		for col, n := range space {
			if n == 0 {
				continue
			}
			if ctx.Err() != nil {
				return best
			}
			placement := model.RackPlacement{Column: col, TileIndex: idx}
			if score := s.simulate(ctx, state, seat, placement); score > bestScore {
				bestScore = score
				best = Move{Placements: []model.RackPlacement{placement}}
			}
		}
	}

	if bestScore == 0 {
		swap := make([]int, len(player.Rack))
		for i := range swap {
			swap[i] = i
		}
		return Move{Swap: swap}
	}
	return best
}

func (s *GreedyStrategy) simulate(ctx context.Context, state *model.GameState, seat model.PlayerID, placement model.RackPlacement) int {
	eng := engine.New(state.Clone(), s.dictionary, s.random)

	tiles, err := eng.RemoveTilesFromRack(seat, []int{placement.TileIndex})
	if err != nil {
		return 0
	}
	landed, err := eng.PlaceTiles([]model.TilePlacement{{Column: placement.Column, Tile: tiles[0]}}, seat)
	if err != nil {
		return 0
	}

	total := 0
	for _, c := range FindClaims(ctx, eng, seat, landed) {
		total += c.Score
	}
	return total
}

var _ Strategy = (*GreedyStrategy)(nil)
