package engine

import (
	"fmt"
	"strings"

	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/detection"
)

// PlaceTiles drops each tile into its column, filling the first empty cell
// from the top, then resolves gravity once for the whole board. Every
// placement is checked before any tile is written. It returns the final
// position of each tile, in placement order.
func (e *Engine) PlaceTiles(placements []model.TilePlacement, playerID model.PlayerID) ([]model.Position, error) {
	board := &e.state.Board

	needed := make(map[int]int)
	for _, p := range placements {
		if p.Column < 0 || p.Column >= model.BoardSize {
			return nil, fmt.Errorf("column %d: %w", p.Column, model.ErrInvalidColumn)
		}
		needed[p.Column]++
		if needed[p.Column] > board.EmptyInColumn(p.Column) {
			return nil, fmt.Errorf("column %d: %w", p.Column, model.ErrColumnFull)
		}
	}

	written := make([]model.Position, len(placements))
	for i, p := range placements {
		for row := 0; row < model.BoardSize; row++ {
			pos := model.Position{X: p.Column, Y: row}
			if board.IsEmpty(pos) {
				board.Set(pos, ownedTile(p.Tile, playerID))
				written[i] = pos
				break
			}
		}
	}

	moves := board.ResolveGravity()
	landed := make([]model.Position, len(written))
	for i, pos := range written {
		landed[i] = moves[pos]
	}
	return landed, nil
}

// PlaceTileAtPosition puts a tile directly into a cell without applying
// gravity
func (e *Engine) PlaceTileAtPosition(pos model.Position, tile model.Tile, playerID model.PlayerID) error {
	board := &e.state.Board
	if !board.IsValidPosition(pos) {
		return fmt.Errorf("position %s: %w", pos, model.ErrOutOfBounds)
	}
	if !board.IsEmpty(pos) {
		return fmt.Errorf("position %s: %w", pos, model.ErrCellOccupied)
	}
	board.Set(pos, ownedTile(tile, playerID))
	return nil
}

// RemoveTile clears a cell and resolves gravity. It returns the removed
// tile, or nil if the cell was already empty.
func (e *Engine) RemoveTile(pos model.Position) (*model.Tile, error) {
	tile, _, err := e.RemoveTileTracking(pos, nil)
	return tile, err
}

// RemoveTileTracking removes a tile like RemoveTile and also reports where
// each tracked position's tile ended up after gravity. Tracked positions
// that held no tile, or held the removed tile, are dropped.
func (e *Engine) RemoveTileTracking(pos model.Position, tracked []model.Position) (*model.Tile, []model.Position, error) {
	board := &e.state.Board
	if !board.IsValidPosition(pos) {
		return nil, nil, fmt.Errorf("position %s: %w", pos, model.ErrOutOfBounds)
	}

	tile := board.Get(pos)
	if tile == nil {
		return nil, tracked, nil
	}
	board.Set(pos, nil)

	moves := board.ResolveGravity()
	var moved []model.Position
	for _, t := range tracked {
		if to, ok := moves[t]; ok {
			moved = append(moved, to)
		}
	}

	return tile, moved, nil
}

// ResolveGravity packs every column to the bottom
func (e *Engine) ResolveGravity() {
	e.state.Board.ResolveGravity()
}

// ExtractWord reads an uppercase word from a straight line of filled cells.
// The second return is false unless the positions form a valid line, every
// cell holds a tile, and the word has at least three letters.
func (e *Engine) ExtractWord(positions []model.Position) (string, bool) {
	return extractWord(&e.state.Board, positions)
}

// SetBlankLetter assigns a letter to a blank tile on the board
func (e *Engine) SetBlankLetter(pos model.Position, letter string) error {
	board := &e.state.Board
	if !board.IsValidPosition(pos) {
		return fmt.Errorf("position %s: %w", pos, model.ErrOutOfBounds)
	}

	tile := board.Get(pos)
	if tile == nil || !tile.IsBlank() {
		return fmt.Errorf("position %s: %w", pos, model.ErrNotBlank)
	}
	if tile.BlankLocked {
		return fmt.Errorf("position %s: %w", pos, model.ErrBlankLocked)
	}

	letter = strings.ToUpper(letter)
	if !model.IsLetter(letter) {
		return fmt.Errorf("letter %q: %w", letter, model.ErrInvalidLetter)
	}

	tile.BlankAssigned = letter
	return nil
}

func extractWord(board *model.Board, positions []model.Position) (string, bool) {
	if !detection.IsValidWordLine(positions) {
		return "", false
	}
	for _, p := range positions {
		if board.IsEmpty(p) {
			return "", false
		}
	}

	word := strings.ToUpper(detection.ExtractWordFromPositions(board, positions, false))
	return word, len(word) >= detection.MinWordLength
}

func ownedTile(tile model.Tile, playerID model.PlayerID) *model.Tile {
	t := tile.Clone()
	t.Owner = playerID.Ptr()
	return &t
}
