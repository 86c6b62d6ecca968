package resolver

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

const promptSuffix = "Determine your next move and respond with ONLY a JSON object with your move's index."

var difficultyDirectives = map[entity.Difficulty]string{
	entity.Easy: "Your strategy is to pick any available empty square at random. Do not think strategically.",
	entity.Medium: "Your strategy is: 1. If you can win in one move, take that move. " +
		"2. If the opponent can win on their next move, block them. " +
		"3. Otherwise, pick a random available square.",
	entity.Hard: "Your strategy is to play perfectly. Use the minimax algorithm principles to find the optimal move. " +
		"Prioritize winning, then blocking your opponent from winning, " +
		"and finally making a strategic move to secure a future win or a draw. You must not lose.",
}

// NewRequest builds the suggestion request for the agent's turn, prompt included.
func NewRequest(board entity.Board, agent entity.Player, difficulty entity.Difficulty) entity.SuggestionRequest {
	instruction := fmt.Sprintf(
		"You are a Tic-Tac-Toe AI. The board is a 9-element array. "+
			"Indices are 0-8, left-to-right, top-to-bottom. "+
			"The current board is %s. Your symbol is %q. The human player is %q. It is your turn.",
		formatBoard(board), agent.String(), agent.Opponent().String(),
	)

	directive := difficultyDirectives[difficulty]

	return entity.SuggestionRequest{
		Board:       board,
		Agent:       agent,
		Opponent:    agent.Opponent(),
		Difficulty:  difficulty,
		Instruction: directive,
		Prompt:      strings.Join([]string{instruction, directive, promptSuffix}, " "),
	}
}

// formatBoard renders the board as ["X", null, "O", ...].
func formatBoard(board entity.Board) string {
	cells := make([]string, 0, len(board))
	for _, cell := range board {
		if owner, ok := cell.Owner(); ok {
			cells = append(cells, fmt.Sprintf("%q", owner.String()))
			continue
		}

		cells = append(cells, "null")
	}

	return "[" + strings.Join(cells, ", ") + "]"
}
