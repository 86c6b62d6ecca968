package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
	"github.com/rocketscienceinc/tictactoe-agent/internal/session"
	"github.com/rocketscienceinc/tictactoe-agent/testing/suite"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, opts ...session.Option) (Model, *session.Session) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	game := session.New(ctx, suite.Discard(), nil, opts...)
	t.Cleanup(func() {
		cancel()
		game.Wait()
	})

	return NewModel(game), game
}

func press(t *testing.T, model Model, keys ...tea.KeyMsg) Model {
	t.Helper()

	for _, msg := range keys {
		updated, _ := model.Update(msg)
		model = updated.(Model) //nolint: forcetypeassert // Update always returns Model
	}

	return model
}

func TestModel_Cursor(t *testing.T) {
	model, _ := newModel(t, session.WithMode(entity.PlayerVsPlayer))
	require.Equal(t, 4, model.cursor)

	model = press(t, model, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, model.cursor, "stays on the top row")

	model = press(t, model, runes("h"), runes("h"))
	assert.Equal(t, 0, model.cursor, "stays in the left column")

	model = press(t, model, runes("j"), runes("j"), runes("l"), runes("l"), tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 8, model.cursor)
}

func TestModel_Moves(t *testing.T) {
	t.Run("Enter places on the cursor", func(t *testing.T) {
		model, game := newModel(t, session.WithMode(entity.PlayerVsPlayer))

		model = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})

		assert.Equal(t, entity.MarkX, game.State().Board[4])
		assert.Equal(t, entity.PlayerO, model.state.Active)
	})

	t.Run("Digits place directly", func(t *testing.T) {
		model, game := newModel(t, session.WithMode(entity.PlayerVsPlayer))

		model = press(t, model, runes("1"), runes("9"))

		state := game.State()
		assert.Equal(t, entity.MarkX, state.Board[0])
		assert.Equal(t, entity.MarkO, state.Board[8])
		assert.Equal(t, 8, model.cursor)
	})

	t.Run("Occupied cell shows a hint", func(t *testing.T) {
		model, _ := newModel(t, session.WithMode(entity.PlayerVsPlayer))

		model = press(t, model, runes("5"), runes("5"))

		assert.Contains(t, model.View(), "That cell is taken.")
	})

	t.Run("Win is announced and tallied", func(t *testing.T) {
		model, _ := newModel(t, session.WithMode(entity.PlayerVsPlayer))

		model = press(t, model, runes("1"), runes("2"), runes("4"), runes("5"), runes("7"))

		view := model.View()
		assert.Contains(t, view, "X wins!")
		assert.Contains(t, view, "X 1 : 0 O")
	})
}

func TestModel_Settings(t *testing.T) {
	model, game := newModel(t, session.WithMode(entity.PlayerVsPlayer))
	model = press(t, model, runes("1"), runes("2"), runes("4"), runes("5"), runes("7"))

	model = press(t, model, runes("n"))
	assert.Equal(t, entity.NewBoard(), model.state.Board)
	assert.Equal(t, 1, model.state.Score.X)

	model = press(t, model, runes("N"))
	assert.Equal(t, 0, model.state.Score.X)

	model = press(t, model, runes("d"))
	assert.Equal(t, entity.Hard, game.State().Difficulty)

	model = press(t, model, runes("m"))
	assert.Equal(t, entity.PlayerVsAgent, model.state.Mode)
	assert.Contains(t, model.View(), "vs agent (O)")
}

func TestModel_StateMsg(t *testing.T) {
	model, _ := newModel(t, session.WithMode(entity.PlayerVsPlayer))
	model = press(t, model, runes("5"))
	current := model.state

	t.Run("Older snapshots are ignored", func(t *testing.T) {
		stale := current
		stale.Version--
		stale.Board = entity.NewBoard()

		updated, _ := model.Update(StateMsg(stale))

		assert.Equal(t, current, updated.(Model).state) //nolint: forcetypeassert // Update always returns Model
	})

	t.Run("Newer snapshots replace the state", func(t *testing.T) {
		newer := current
		newer.Version++
		newer.Resolving = true

		updated, _ := model.Update(StateMsg(newer))

		assert.True(t, updated.(Model).state.Resolving) //nolint: forcetypeassert // Update always returns Model
		assert.Contains(t, updated.(Model).View(), "is thinking") //nolint: forcetypeassert // Update always returns Model
	})
}

func TestModel_Quit(t *testing.T) {
	model, _ := newModel(t)

	updated, cmd := model.Update(runes("q"))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, updated.View())
}
