package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-agent/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle   = lipgloss.NewStyle().Width(5).Align(lipgloss.Center)
	cursorStyle = cellStyle.Reverse(true)
	markStyles  = map[entity.Cell]lipgloss.Style{
		entity.MarkX: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		entity.MarkO: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
	}
	winStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().MarginTop(1)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Tic-Tac-Toe"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(m.settings()))
	b.WriteString("\n\n")
	b.WriteString(m.renderBoard())
	b.WriteString(statusStyle.Render(m.status()))
	b.WriteString("\n")
	b.WriteString(m.tally())
	b.WriteString("\n")

	if hint := m.hint(); hint != "" {
		b.WriteString(errorStyle.Render(hint))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderBoard() string {
	line, hasLine := m.state.Outcome.Line()
	onLine := func(index int) bool {
		return hasLine && (line[0] == index || line[1] == index || line[2] == index)
	}

	rows := make([]string, 0, 5)
	for row := range 3 {
		cells := make([]string, 0, 3)
		for col := range 3 {
			index := row*3 + col
			cells = append(cells, m.renderCell(index, onLine(index)))
		}

		rows = append(rows, strings.Join(cells, dimStyle.Render("│")))
		if row < 2 {
			rows = append(rows, dimStyle.Render(strings.Repeat("─", 17)))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(index int, onLine bool) string {
	cell := m.state.Board[index]

	text := dimStyle.Render(fmt.Sprint(index + 1))
	if cell != entity.EmptyCell {
		style := markStyles[cell]
		if onLine {
			style = winStyle
		}
		text = style.Render(cell.String())
	}

	if index == m.cursor && !m.state.Outcome.IsTerminal() {
		return cursorStyle.Render(text)
	}

	return cellStyle.Render(text)
}

func (m Model) settings() string {
	if m.state.Mode == entity.PlayerVsPlayer {
		return "player vs player"
	}

	return fmt.Sprintf("vs agent (%s) · %s", m.state.Agent, m.state.Difficulty)
}

func (m Model) status() string {
	if winner, ok := m.state.Outcome.Winner(); ok {
		return winStyle.Render(fmt.Sprintf("%s wins! Press n for a new round.", winner))
	}

	if m.state.Outcome.IsTerminal() {
		return "Draw. Press n for a new round."
	}

	if m.state.Resolving {
		return fmt.Sprintf("Agent (%s) is thinking...", m.state.Agent)
	}

	return fmt.Sprintf("%s to move", m.state.Active)
}

func (m Model) tally() string {
	return fmt.Sprintf("X %d : %d O", m.state.Score.X, m.state.Score.O)
}

func (m Model) hint() string {
	switch {
	case m.lastErr == nil:
		return ""
	case errors.Is(m.lastErr, apperror.ErrCellOccupied):
		return "That cell is taken."
	case errors.Is(m.lastErr, apperror.ErrResolutionInFlight):
		return "Wait for the agent to move."
	default:
		return ""
	}
}
