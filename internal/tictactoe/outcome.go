package tictactoe

import "github.com/rocketscienceinc/tictactoe-agent/internal/entity"

// Detect evaluates the board. The first uniformly marked line in enumeration
// order wins; otherwise a full board is a draw.
func Detect(board entity.Board) entity.Outcome {
	for _, line := range entity.WinningLines() {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.EmptyCell && a == b && b == c {
			winner, _ := a.Owner()
			return entity.Win(winner, line)
		}
	}

	// the game continues until all the squares are full
	if !board.IsFull() {
		return entity.InProgress()
	}

	return entity.Draw()
}

// WinningMove returns the lowest empty index that completes a line for player.
func WinningMove(board entity.Board, player entity.Player) (int, bool) {
	for _, cell := range board.EmptyCells() {
		if outcome := Detect(board.Place(cell, player)); outcome.Kind() == entity.KindWin {
			return cell, true
		}
	}

	return -1, false
}
