// Package detection finds and reads straight-line words on a board.
// Every function is pure: it reads the board and never mutates it.
package detection

import (
	"strings"

	"github.com/mcoot/grabble/internal/model"
)

// Direction is a unit step between adjacent cells of a word
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// MinWordLength is the shortest run of tiles that counts as a word
const MinWordLength = 3

// Directions are the canonical scan directions: right, down, down-right and
// up-right. Together they cover every straight line on the board once.
var Directions = []Direction{
	{DX: 1, DY: 0},
	{DX: 0, DY: 1},
	{DX: 1, DY: 1},
	{DX: 1, DY: -1},
}

// FindWordsInDirection returns every run of at least three occupied cells
// along (dx, dy), starting from the beginning of the run containing the seed
// cell and continuing to the board edge. Runs are split at empty cells.
func FindWordsInDirection(board *model.Board, x, y, dx, dy int) [][]model.Position {
	var words [][]model.Position

	pos := model.Position{X: x, Y: y}
	for board.IsValidPosition(pos) && !board.IsEmpty(pos) {
		pos = model.Position{X: pos.X - dx, Y: pos.Y - dy}
	}
	pos = model.Position{X: pos.X + dx, Y: pos.Y + dy}

	var current []model.Position
	for board.IsValidPosition(pos) {
		if board.IsEmpty(pos) {
			if len(current) >= MinWordLength {
				words = append(words, current)
			}
			current = nil
		} else {
			current = append(current, pos)
		}
		pos = model.Position{X: pos.X + dx, Y: pos.Y + dy}
	}
	if len(current) >= MinWordLength {
		words = append(words, current)
	}

	return words
}

// FindAllWords returns every candidate word on the board. A physical word
// found from several seed cells appears once, in the order it was first
// found, with positions in scan order.
func FindAllWords(board *model.Board) [][]model.Position {
	var words [][]model.Position
	seen := make(map[string]bool)

	for y := 0; y < model.BoardSize; y++ {
		for x := 0; x < model.BoardSize; x++ {
			if board.IsEmpty(model.Position{X: x, Y: y}) {
				continue
			}
			for _, d := range Directions {
				for _, word := range FindWordsInDirection(board, x, y, d.DX, d.DY) {
					key := model.PositionSetKey(word)
					if seen[key] {
						continue
					}
					seen[key] = true
					words = append(words, word)
				}
			}
		}
	}

	return words
}

// ExtractWordFromPositions reads the letters at the given positions.
//
// With preserveOrder the positions are read as given. Otherwise a straight
// selection (vertical, horizontal or exactly diagonal from first to last
// position) is still read in the order it was selected, so a word can be
// picked in either direction along its axis; anything else is read top to
// bottom, left to right. Empty cells contribute nothing and the result is
// trimmed of surrounding blanks.
func ExtractWordFromPositions(board *model.Board, positions []model.Position, preserveOrder bool) string {
	if len(positions) == 0 {
		return ""
	}

	ordered := positions
	if !preserveOrder && !isStraightSelection(positions) {
		ordered = model.SortPositions(positions)
	}

	return readLetters(board, ordered)
}

// IsValidWordLine returns true if the positions form a gapless straight line
// of at least three cells, horizontal, vertical or diagonal
func IsValidWordLine(positions []model.Position) bool {
	if len(positions) < MinWordLength {
		return false
	}

	sorted := model.SortPositions(positions)
	dx := sorted[1].X - sorted[0].X
	dy := sorted[1].Y - sorted[0].Y
	if dx == 0 && dy == 0 {
		return false
	}
	if dx != 0 && dy != 0 && abs(dx) != abs(dy) {
		return false
	}

	dir := Direction{DX: sign(dx), DY: sign(dy)}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].X != sorted[i-1].X+dir.DX || sorted[i].Y != sorted[i-1].Y+dir.DY {
			return false
		}
	}
	return true
}

// GetReverseWord reads the positions in the opposite order to the one they
// were selected in. The second return is false if the positions are not a
// valid word line.
func GetReverseWord(board *model.Board, positions []model.Position) (string, bool) {
	if !IsValidWordLine(positions) {
		return "", false
	}

	reversed := make([]model.Position, len(positions))
	for i, p := range positions {
		reversed[len(positions)-1-i] = p
	}
	return readLetters(board, reversed), true
}

// ContainsNewTile returns true if any position is one of the newly placed
// tiles
func ContainsNewTile(positions, newlyPlaced []model.Position) bool {
	for _, p := range positions {
		for _, n := range newlyPlaced {
			if p == n {
				return true
			}
		}
	}
	return false
}

// GetWordDirection returns the normalized step between the first two
// positions in reading order. The second return is false for fewer than two
// positions.
func GetWordDirection(positions []model.Position) (Direction, bool) {
	if len(positions) < 2 {
		return Direction{}, false
	}
	sorted := model.SortPositions(positions)
	return Direction{
		DX: sign(sorted[1].X - sorted[0].X),
		DY: sign(sorted[1].Y - sorted[0].Y),
	}, true
}

// AreWordsSameDirection returns true if both words run along the same axis
func AreWordsSameDirection(a, b []model.Position) bool {
	dirA, okA := GetWordDirection(a)
	dirB, okB := GetWordDirection(b)
	if !okA || !okB {
		return false
	}
	return dirA == dirB
}

// IsSubstringWord returns true if claimed is strictly shorter than longer
// and its cells appear as one contiguous block within longer, both read top
// to bottom, left to right
func IsSubstringWord(claimed, longer []model.Position) bool {
	if len(claimed) >= len(longer) {
		return false
	}

	c := model.SortPositions(claimed)
	l := model.SortPositions(longer)
	for i := 0; i+len(c) <= len(l); i++ {
		matches := true
		for j := range c {
			if l[i+j] != c[j] {
				matches = false
				break
			}
		}
		if matches {
			return true
		}
	}
	return false
}

// SamePositionSet returns true if a and b cover exactly the same cells
func SamePositionSet(a, b []model.Position) bool {
	if len(a) != len(b) {
		return false
	}
	return model.PositionSetKey(a) == model.PositionSetKey(b)
}

// isStraightSelection checks the first-to-last span of a selection
func isStraightSelection(positions []model.Position) bool {
	first := positions[0]
	last := positions[len(positions)-1]
	dx := last.X - first.X
	dy := last.Y - first.Y

	switch {
	case dx == 0 && dy != 0:
		return true
	case dy == 0 && dx != 0:
		return true
	case dx != 0 && dy != 0 && abs(dx) == abs(dy):
		return true
	default:
		return false
	}
}

func readLetters(board *model.Board, positions []model.Position) string {
	var sb strings.Builder
	for _, p := range positions {
		if tile := board.Get(p); tile != nil {
			sb.WriteString(tile.DisplayLetter())
		}
	}
	return strings.TrimSpace(sb.String())
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
