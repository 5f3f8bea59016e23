package engine

import (
	"fmt"
	"sort"

	"github.com/mcoot/grabble/internal/model"
)

// RefillPlayerRack draws from the end of the bag until the player's rack is
// full or the bag is empty
func (e *Engine) RefillPlayerRack(playerID model.PlayerID) error {
	player, err := e.player(playerID)
	if err != nil {
		return err
	}
	e.refill(player)
	return nil
}

func (e *Engine) refill(player *model.Player) {
	for len(player.Rack) < model.RackSize && len(e.state.TileBag) > 0 {
		last := len(e.state.TileBag) - 1
		player.Rack = append(player.Rack, e.state.TileBag[last])
		e.state.TileBag = e.state.TileBag[:last]
	}
}

// SwapTiles returns the rack tiles at the given indices to the bag,
// reshuffles the whole bag and refills the rack. Out of range and repeated
// indices are ignored. It returns the tiles that went back to the bag.
// Swapping costs the turn; the caller advances it.
func (e *Engine) SwapTiles(playerID model.PlayerID, indices []int) ([]model.Tile, error) {
	player, err := e.player(playerID)
	if err != nil {
		return nil, err
	}

	var valid []int
	seen := make(map[int]bool)
	for _, i := range indices {
		if i >= 0 && i < len(player.Rack) && !seen[i] {
			seen[i] = true
			valid = append(valid, i)
		}
	}

	removed := removeAt(player, valid)
	for _, t := range removed {
		e.state.TileBag = append(e.state.TileBag, t.Unplaced())
	}
	Shuffle(e.state.TileBag, e.random)
	e.refill(player)

	return removed, nil
}

// RemoveTilesFromRack takes the tiles at the given indices out of the
// player's rack and returns them in the order the indices were given. Every
// index must be in range and distinct.
func (e *Engine) RemoveTilesFromRack(playerID model.PlayerID, indices []int) ([]model.Tile, error) {
	player, err := e.player(playerID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	tiles := make([]model.Tile, len(indices))
	for n, i := range indices {
		if i < 0 || i >= len(player.Rack) || seen[i] {
			return nil, fmt.Errorf("rack index %d: %w", i, model.ErrInvalidTileIndex)
		}
		seen[i] = true
		tiles[n] = player.Rack[i]
	}

	removeAt(player, indices)
	return tiles, nil
}

// ReturnTileToRack puts a tile taken off the board back into the player's
// rack, without its owner or blank assignment
func (e *Engine) ReturnTileToRack(playerID model.PlayerID, tile model.Tile) error {
	player, err := e.player(playerID)
	if err != nil {
		return err
	}
	player.Rack = append(player.Rack, tile.Unplaced())
	return nil
}

// removeAt removes rack tiles at distinct, in-range indices, highest index
// first so earlier removals do not shift later ones
func removeAt(player *model.Player, indices []int) []model.Tile {
	sorted := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	removed := make([]model.Tile, 0, len(sorted))
	for _, i := range sorted {
		removed = append(removed, player.Rack[i])
		player.Rack = append(player.Rack[:i], player.Rack[i+1:]...)
	}
	return removed
}

// AdvanceTurn passes the turn to the player next in turn order
func (e *Engine) AdvanceTurn() error {
	current, err := e.player(e.state.CurrentPlayerID)
	if err != nil {
		return fmt.Errorf("current player: %w", err)
	}

	next := (current.TurnOrder + 1) % len(e.state.Players)
	for _, p := range e.state.Players {
		if p.TurnOrder == next {
			e.state.CurrentPlayerID = p.ID
			break
		}
	}
	return nil
}

// CheckWinCondition finishes the game if any player has reached the target
// score. When several have, the first in seat order wins. It returns the
// winner, or nil if the game goes on.
func (e *Engine) CheckWinCondition() *model.PlayerID {
	for _, p := range e.state.Players {
		if p.Score >= e.state.TargetScore {
			e.state.Status = model.GameStatusFinished
			e.state.WinnerID = p.ID.Ptr()
			return p.ID.Ptr()
		}
	}
	return nil
}

// CanContinueGame returns false only when the bag and every rack are empty.
// It does not check whether a legal move exists.
func (e *Engine) CanContinueGame() bool {
	if len(e.state.TileBag) > 0 {
		return true
	}
	for _, p := range e.state.Players {
		if len(p.Rack) > 0 {
			return true
		}
	}
	return false
}
