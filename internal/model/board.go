package model

import "fmt"

// BoardSize is the fixed width and height of the board
const BoardSize = 7

// Position identifies a cell on the board
type Position struct {
	X int `json:"x"` // Column, 0-indexed from left
	Y int `json:"y"` // Row, 0-indexed from top
}

// String renders the position as "(x,y)"
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Board is the shared 7x7 grid. Cells[y][x] is nil when the cell is empty.
type Board struct {
	Cells [BoardSize][BoardSize]*Tile `json:"cells"`
}

// NewBoard creates an empty board
func NewBoard() Board {
	return Board{}
}

// IsValidPosition returns true if the position is within bounds
func (b *Board) IsValidPosition(pos Position) bool {
	return pos.X >= 0 && pos.X < BoardSize && pos.Y >= 0 && pos.Y < BoardSize
}

// Get returns the tile at the given position, or nil if empty or out of bounds
func (b *Board) Get(pos Position) *Tile {
	if !b.IsValidPosition(pos) {
		return nil
	}
	return b.Cells[pos.Y][pos.X]
}

// Set places a tile at the given position (nil clears the cell)
func (b *Board) Set(pos Position, tile *Tile) {
	if b.IsValidPosition(pos) {
		b.Cells[pos.Y][pos.X] = tile
	}
}

// IsEmpty returns true if the cell at the given position is empty
func (b *Board) IsEmpty(pos Position) bool {
	return b.Get(pos) == nil
}

// EmptyInColumn returns the number of empty cells in a column
func (b *Board) EmptyInColumn(col int) int {
	if col < 0 || col >= BoardSize {
		return 0
	}
	count := 0
	for row := 0; row < BoardSize; row++ {
		if b.Cells[row][col] == nil {
			count++
		}
	}
	return count
}

// TileCount returns the number of occupied cells
func (b *Board) TileCount() int {
	count := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.Cells[row][col] != nil {
				count++
			}
		}
	}
	return count
}

// IsFull returns true if every cell is occupied
func (b *Board) IsFull() bool {
	return b.TileCount() == BoardSize*BoardSize
}

// ResolveGravity packs every column to the bottom, preserving the relative
// order of its tiles. It returns where each tile ended up, keyed by the
// position it occupied before resolution.
func (b *Board) ResolveGravity() map[Position]Position {
	moves := make(map[Position]Position)
	for col := 0; col < BoardSize; col++ {
		var tiles []*Tile
		var from []Position
		for row := 0; row < BoardSize; row++ {
			if tile := b.Cells[row][col]; tile != nil {
				tiles = append(tiles, tile)
				from = append(from, Position{X: col, Y: row})
				b.Cells[row][col] = nil
			}
		}

		row := BoardSize - 1
		for i := len(tiles) - 1; i >= 0; i-- {
			b.Cells[row][col] = tiles[i]
			moves[from[i]] = Position{X: col, Y: row}
			row--
		}
	}
	return moves
}

// IsSettled returns true if no column has an empty cell below an occupied one
func (b *Board) IsSettled() bool {
	for col := 0; col < BoardSize; col++ {
		seenTile := false
		for row := 0; row < BoardSize; row++ {
			if b.Cells[row][col] != nil {
				seenTile = true
			} else if seenTile {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the board
func (b *Board) Clone() Board {
	var out Board
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if tile := b.Cells[row][col]; tile != nil {
				t := tile.Clone()
				out.Cells[row][col] = &t
			}
		}
	}
	return out
}

// Letters renders the board as rows of display letters, "" for empty cells
func (b *Board) Letters() [][]string {
	rows := make([][]string, BoardSize)
	for row := 0; row < BoardSize; row++ {
		rows[row] = make([]string, BoardSize)
		for col := 0; col < BoardSize; col++ {
			if tile := b.Cells[row][col]; tile != nil {
				rows[row][col] = tile.DisplayLetter()
			}
		}
	}
	return rows
}
