package testutil

import (
	"github.com/mcoot/grabble/internal/model"
)

// BoardFromRows builds a board from up to seven row strings, top row first.
// '.' is an empty cell, '?' a blank tile, and any other character a tile of
// that letter with its standard point value. Rows may be shorter than the
// board; missing cells are empty.
func BoardFromRows(rows ...string) *model.Board {
	board := model.NewBoard()
	for y, row := range rows {
		for x, ch := range row {
			pos := model.Position{X: x, Y: y}
			switch ch {
			case '.':
				continue
			case '?':
				tile := model.NewTile(model.BlankLetter)
				board.Set(pos, &tile)
			default:
				tile := model.NewTile(string(ch))
				board.Set(pos, &tile)
			}
		}
	}
	return &board
}

// Column returns the positions of a vertical run in column x from row
// top to row bottom inclusive, top first
func Column(x, top, bottom int) []model.Position {
	var positions []model.Position
	for y := top; y <= bottom; y++ {
		positions = append(positions, model.Position{X: x, Y: y})
	}
	return positions
}

// Row returns the positions of a horizontal run in row y from column left
// to column right inclusive, left first
func Row(y, left, right int) []model.Position {
	var positions []model.Position
	for x := left; x <= right; x++ {
		positions = append(positions, model.Position{X: x, Y: y})
	}
	return positions
}
