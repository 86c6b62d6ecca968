package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

const BoardSize = 9

// Cell is the content of a single board square.
type Cell uint8

const (
	EmptyCell Cell = iota
	MarkX
	MarkO
)

// Owner reports which player a non-empty cell belongs to.
func (that Cell) Owner() (Player, bool) {
	switch that {
	case MarkX:
		return PlayerX, true
	case MarkO:
		return PlayerO, true
	default:
		return PlayerX, false
	}
}

func (that Cell) String() string {
	switch that {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return ""
	}
}

// MarshalJSON encodes marks as "X"/"O" and empty cells as null.
func (that Cell) MarshalJSON() ([]byte, error) {
	if that == EmptyCell {
		return []byte("null"), nil
	}

	return json.Marshal(that.String())
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*that = EmptyCell
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to unmarshal cell: %w", err)
	}

	if value == "" {
		*that = EmptyCell
		return nil
	}

	player, err := ParsePlayer(value)
	if err != nil {
		return err
	}

	*that = player.Mark()

	return nil
}

// Board holds the 3x3 grid, indices 0-8 left-to-right, top-to-bottom.
type Board [BoardSize]Cell

func NewBoard() Board {
	return Board{}
}

func IsValidIndex(index int) bool {
	return index >= 0 && index < BoardSize
}

// IsEmptyAt is false for out-of-range indices.
func (that Board) IsEmptyAt(index int) bool {
	return IsValidIndex(index) && that[index] == EmptyCell
}

// EmptyCells returns the indices of all empty cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// Place returns a copy of the board with the player's mark at index.
func (that Board) Place(index int, player Player) Board {
	that[index] = player.Mark()
	return that
}

// String renders the board as a compact 9-character key, "-" for empty cells.
func (that Board) String() string {
	var sb strings.Builder
	for _, cell := range that {
		if cell == EmptyCell {
			sb.WriteByte('-')
			continue
		}
		sb.WriteString(cell.String())
	}

	return sb.String()
}

// WinningLine is an index triple that ends the game when uniformly marked.
type WinningLine [3]int

var winningLines = [8]WinningLine{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// WinningLines returns the 8 lines in their fixed enumeration order:
// rows, then columns, then diagonals.
func WinningLines() [8]WinningLine {
	return winningLines
}
