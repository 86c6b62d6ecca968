package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/rocketscienceinc/tictactoe-agent/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
	"github.com/rocketscienceinc/tictactoe-agent/internal/tictactoe"
)

type moveResolver interface {
	Resolve(ctx context.Context, board entity.Board, agent entity.Player, difficulty entity.Difficulty) int
}

// State is an immutable snapshot of a session.
type State struct {
	Board      entity.Board      `json:"board"`
	Active     entity.Player     `json:"active"`
	Outcome    entity.Outcome    `json:"outcome"`
	Score      entity.Score      `json:"score"`
	Mode       entity.GameMode   `json:"mode"`
	Difficulty entity.Difficulty `json:"difficulty"`
	Agent      entity.Player     `json:"agent"`
	Resolving  bool              `json:"resolving"`
	Version    uint64            `json:"version"`
}

type Option func(*Session)

func WithMode(mode entity.GameMode) Option {
	return func(that *Session) {
		that.mode = mode
	}
}

func WithDifficulty(difficulty entity.Difficulty) Option {
	return func(that *Session) {
		that.difficulty = difficulty
	}
}

// WithAgent sets the mark played by the resolver in player-vs-agent mode.
func WithAgent(agent entity.Player) Option {
	return func(that *Session) {
		that.agent = agent
	}
}

// Session owns one game: the board, whose turn it is, the tally and the
// agent resolution in flight. All methods are safe for concurrent use.
type Session struct {
	ctx      context.Context
	logger   *slog.Logger
	resolver moveResolver

	mu         sync.Mutex
	board      entity.Board
	active     entity.Player
	outcome    entity.Outcome
	score      entity.Score
	mode       entity.GameMode
	difficulty entity.Difficulty
	agent      entity.Player
	resolving  bool
	generation uint64
	version    uint64

	observersMu sync.Mutex
	observers   map[int]func(State)
	nextID      int

	inflight sync.WaitGroup
}

// New creates a session in its initial state. Agent resolutions run with ctx;
// cancelling it aborts them.
func New(ctx context.Context, logger *slog.Logger, resolver moveResolver, opts ...Option) *Session {
	session := &Session{
		ctx:        ctx,
		logger:     logger.With("component", "session"),
		resolver:   resolver,
		board:      entity.NewBoard(),
		active:     entity.PlayerX,
		outcome:    entity.InProgress(),
		mode:       entity.PlayerVsAgent,
		difficulty: entity.Medium,
		agent:      entity.PlayerO,
		observers:  make(map[int]func(State)),
	}

	for _, opt := range opts {
		opt(session)
	}

	session.mu.Lock()
	session.triggerAgent()
	session.mu.Unlock()

	return session
}

// ApplyMove places the active player's mark on behalf of the human side.
func (that *Session) ApplyMove(index int) error {
	that.mu.Lock()

	if err := that.applyMove(index, false); err != nil {
		that.mu.Unlock()
		return err
	}

	that.triggerAgent()
	state := that.snapshot()
	that.mu.Unlock()

	that.notify(state)

	return nil
}

// Reset clears the board for a new round; the tally survives only when preserveScore is set.
func (that *Session) Reset(preserveScore bool) {
	that.update(func() {
		that.reset(preserveScore)
	})
}

func (that *Session) StartNewRound() {
	that.Reset(true)
}

func (that *Session) StartNewGame() {
	that.Reset(false)
}

// SetMode switches the game mode and starts a new game.
func (that *Session) SetMode(mode entity.GameMode) {
	that.update(func() {
		that.mode = mode
		that.reset(false)
	})
}

// SetDifficulty changes the agent difficulty and starts a new game.
func (that *Session) SetDifficulty(difficulty entity.Difficulty) {
	that.update(func() {
		that.difficulty = difficulty
		that.reset(false)
	})
}

func (that *Session) State() State {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn is called outside the session lock and must not block for long.
// The returned function removes the subscription.
func (that *Session) Subscribe(fn func(State)) func() {
	that.observersMu.Lock()
	defer that.observersMu.Unlock()

	id := that.nextID
	that.nextID++
	that.observers[id] = fn

	return func() {
		that.observersMu.Lock()
		defer that.observersMu.Unlock()

		delete(that.observers, id)
	}
}

// Wait blocks until every agent resolution started so far has finished.
func (that *Session) Wait() {
	that.inflight.Wait()
}

func (that *Session) update(mutate func()) {
	that.mu.Lock()
	mutate()
	that.triggerAgent()
	state := that.snapshot()
	that.mu.Unlock()

	that.notify(state)
}

// applyMove must be called with mu held.
func (that *Session) applyMove(index int, fromAgent bool) error {
	switch {
	case that.outcome.IsTerminal():
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMoveAttempt, apperror.ErrGameFinished)
	case !entity.IsValidIndex(index):
		return fmt.Errorf("%w: %w: %d", apperror.ErrInvalidMoveAttempt, apperror.ErrInvalidCell, index)
	case !that.board.IsEmptyAt(index):
		return fmt.Errorf("%w: %w: %d", apperror.ErrInvalidMoveAttempt, apperror.ErrCellOccupied, index)
	case that.resolving && !fromAgent:
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMoveAttempt, apperror.ErrResolutionInFlight)
	}

	that.board = that.board.Place(index, that.active)
	that.outcome = tictactoe.Detect(that.board)
	that.version++

	if winner, ok := that.outcome.Winner(); ok {
		that.score.Add(winner)
		return nil
	}

	if !that.outcome.IsTerminal() {
		that.active = that.active.Opponent()
	}

	return nil
}

// reset must be called with mu held.
func (that *Session) reset(preserveScore bool) {
	that.board = entity.NewBoard()
	that.active = entity.PlayerX
	that.outcome = entity.InProgress()
	that.resolving = false
	that.generation++
	that.version++

	if !preserveScore {
		that.score = entity.Score{}
	}
}

// triggerAgent must be called with mu held.
func (that *Session) triggerAgent() {
	if that.outcome.IsTerminal() ||
		that.mode != entity.PlayerVsAgent ||
		that.active != that.agent ||
		that.resolving {
		return
	}

	if that.resolver == nil {
		emptyCells := that.board.EmptyCells()
		index := emptyCells[rand.IntN(len(emptyCells))]
		that.logger.Warn("no move resolver, agent plays a random cell", "cell", index)

		if err := that.applyMove(index, true); err != nil {
			that.logger.Error("failed to apply agent move", "cell", index, "error", err)
		}

		return
	}

	that.resolving = true
	that.version++

	that.inflight.Add(1)
	go that.resolve(that.generation, that.board, that.agent, that.difficulty)
}

func (that *Session) resolve(generation uint64, board entity.Board, agent entity.Player, difficulty entity.Difficulty) {
	defer that.inflight.Done()

	log := that.logger.With("method", "resolve", "generation", generation)

	index := that.resolver.Resolve(that.ctx, board, agent, difficulty)

	that.mu.Lock()

	if current := that.generation; generation != current {
		that.mu.Unlock()
		log.Debug("discarding stale agent move", "cell", index, "current_generation", current)
		return
	}

	that.resolving = false
	that.version++

	if !that.outcome.IsTerminal() {
		if err := that.applyMove(index, true); err != nil {
			log.Error("failed to apply agent move", "cell", index, "error", err)
		}
	}

	state := that.snapshot()
	that.mu.Unlock()

	that.notify(state)
}

func (that *Session) snapshot() State {
	return State{
		Board:      that.board,
		Active:     that.active,
		Outcome:    that.outcome,
		Score:      that.score,
		Mode:       that.mode,
		Difficulty: that.difficulty,
		Agent:      that.agent,
		Resolving:  that.resolving,
		Version:    that.version,
	}
}

func (that *Session) notify(state State) {
	that.observersMu.Lock()
	observers := make([]func(State), 0, len(that.observers))
	for _, fn := range that.observers {
		observers = append(observers, fn)
	}
	that.observersMu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
