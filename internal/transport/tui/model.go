package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
	"github.com/rocketscienceinc/tictactoe-agent/internal/session"
)

type gameSession interface {
	ApplyMove(index int) error
	StartNewRound()
	StartNewGame()
	SetMode(mode entity.GameMode)
	SetDifficulty(difficulty entity.Difficulty)
	State() session.State
}

// StateMsg carries a session snapshot produced outside the event loop, such as an agent move.
type StateMsg session.State

// Model is the Bubble Tea model of the board screen.
type Model struct {
	game     gameSession
	state    session.State
	cursor   int
	lastErr  error
	keys     KeyMap
	help     help.Model
	quitting bool
}

func NewModel(game gameSession) Model {
	return Model{
		game:   game,
		state:  game.State(),
		cursor: 4,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case StateMsg:
		// snapshots may arrive out of order
		if msg.Version >= m.state.Version {
			m.state = session.State(msg)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-3)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(3)
	case key.Matches(msg, m.keys.Left):
		if m.cursor%3 > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor%3 < 2 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Place):
		m.lastErr = m.game.ApplyMove(m.cursor)
	case key.Matches(msg, m.keys.Cell):
		m.cursor = int(msg.Runes[0] - '1')
		m.lastErr = m.game.ApplyMove(m.cursor)

	case key.Matches(msg, m.keys.Mode):
		m.game.SetMode(toggleMode(m.state.Mode))
	case key.Matches(msg, m.keys.Difficulty):
		m.game.SetDifficulty(m.state.Difficulty.Next())
	case key.Matches(msg, m.keys.Round):
		m.game.StartNewRound()
	case key.Matches(msg, m.keys.NewGame):
		m.game.StartNewGame()

	default:
		return m, nil
	}

	m.state = m.game.State()

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if next := m.cursor + delta; entity.IsValidIndex(next) {
		m.cursor = next
	}
}

func toggleMode(mode entity.GameMode) entity.GameMode {
	if mode == entity.PlayerVsAgent {
		return entity.PlayerVsPlayer
	}

	return entity.PlayerVsAgent
}

// Run plays game in the terminal until the player quits or ctx is cancelled.
func Run(ctx context.Context, game *session.Session) error {
	program := tea.NewProgram(NewModel(game), tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribe := game.Subscribe(func(state session.State) {
		// Send must not run on the event loop goroutine.
		go program.Send(StateMsg(state))
	})
	defer unsubscribe()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run terminal client: %w", err)
	}

	return nil
}
