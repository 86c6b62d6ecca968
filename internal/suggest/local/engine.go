package local

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
	"github.com/rocketscienceinc/tictactoe-agent/internal/tictactoe"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// preference orders cells for equally scored moves: center, corners, edges.
var preference = [entity.BoardSize]int{4, 0, 2, 6, 8, 1, 3, 5, 7}

// Engine plays the difficulty tiers without any external service.
type Engine struct {
	intN func(n int) int
}

func New() *Engine {
	return &Engine{intN: rand.IntN}
}

// NewWithRand creates an engine whose random picks come from intN.
func NewWithRand(intN func(n int) int) *Engine {
	return &Engine{intN: intN}
}

func (that *Engine) Suggest(ctx context.Context, request entity.SuggestionRequest) (entity.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return entity.Suggestion{}, fmt.Errorf("failed to suggest move: %w", err)
	}

	emptyCells := request.Board.EmptyCells()
	if len(emptyCells) == 0 {
		return entity.Suggestion{}, ErrNoAvailableMoves
	}

	var move int
	switch request.Difficulty {
	case entity.Easy:
		move = that.random(emptyCells)
	case entity.Medium:
		move = that.medium(request.Board, request.Agent, emptyCells)
	default:
		move = Best(request.Board, request.Agent)
	}

	return entity.Suggestion{Move: move}, nil
}

func (that *Engine) medium(board entity.Board, agent entity.Player, emptyCells []int) int {
	if cell, ok := tictactoe.WinningMove(board, agent); ok {
		return cell
	}

	if cell, ok := tictactoe.WinningMove(board, agent.Opponent()); ok {
		return cell
	}

	return that.random(emptyCells)
}

func (that *Engine) random(emptyCells []int) int {
	return emptyCells[that.intN(len(emptyCells))]
}

// Best returns the minimax-optimal cell for player, or -1 on a full board.
// Faster wins score higher, so an immediate win is always taken and a
// threatened line is always blocked.
func Best(board entity.Board, player entity.Player) int {
	best, bestScore := -1, 0
	for _, cell := range preference {
		if !board.IsEmptyAt(cell) {
			continue
		}

		score := -negamax(board.Place(cell, player), player.Opponent(), 1)
		if best == -1 || score > bestScore {
			best, bestScore = cell, score
		}
	}

	return best
}

// negamax scores the board from the point of view of toMove.
func negamax(board entity.Board, toMove entity.Player, depth int) int {
	outcome := tictactoe.Detect(board)
	if winner, ok := outcome.Winner(); ok {
		score := entity.BoardSize + 1 - depth
		if winner != toMove {
			return -score
		}

		return score
	}

	if outcome.IsTerminal() {
		return 0
	}

	best := -entity.BoardSize - 1
	for _, cell := range board.EmptyCells() {
		best = max(best, -negamax(board.Place(cell, toMove), toMove.Opponent(), depth+1))
	}

	return best
}
