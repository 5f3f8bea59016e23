package bot

import (
	"context"

	"github.com/mcoot/grabble/internal/model"
)

// Move is a bot's plan for its turn. Placements are dropped first and any
// words they make are claimed. With no placements, the tiles at Swap are
// swapped if the bag has tiles. Otherwise the bot ends its turn.
type Move struct {
	Placements []model.RackPlacement
	Swap       []int
}

// Strategy decides a bot's move from a snapshot of the game
type Strategy interface {
	ChooseMove(ctx context.Context, state *model.GameState, seat model.PlayerID) Move
}

// columnSpace returns the number of empty cells in each column
func columnSpace(board *model.Board) []int {
	space := make([]int, model.BoardSize)
	for col := range space {
		space[col] = board.EmptyInColumn(col)
	}
	return space
}
