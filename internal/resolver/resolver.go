package resolver

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/rocketscienceinc/tictactoe-agent/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

const defaultTimeout = 10 * time.Second

// Suggester asks a move-suggestion service for the agent's next cell.
type Suggester interface {
	Suggest(ctx context.Context, request entity.SuggestionRequest) (entity.Suggestion, error)
}

type Option func(*Resolver)

// WithTimeout bounds a single suggestion call.
func WithTimeout(timeout time.Duration) Option {
	return func(that *Resolver) {
		if timeout > 0 {
			that.timeout = timeout
		}
	}
}

// WithRand replaces the source of random fallback picks; intN must return a value in [0, n).
func WithRand(intN func(n int) int) Option {
	return func(that *Resolver) {
		that.intN = intN
	}
}

// Resolver turns a suggestion into a legal cell. It never fails: whatever the
// service does, the agent gets an empty cell to play.
type Resolver struct {
	logger    *slog.Logger
	suggester Suggester
	timeout   time.Duration
	intN      func(n int) int
}

func New(logger *slog.Logger, suggester Suggester, opts ...Option) *Resolver {
	resolver := &Resolver{
		logger:    logger.With("component", "resolver"),
		suggester: suggester,
		timeout:   defaultTimeout,
		intN:      rand.IntN,
	}

	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

type suggestResult struct {
	suggestion entity.Suggestion
	err        error
}

// Resolve returns the cell the agent plays. The board must have an empty
// cell; otherwise -1 is returned.
func (that *Resolver) Resolve(ctx context.Context, board entity.Board, agent entity.Player, difficulty entity.Difficulty) int {
	log := that.logger.With("method", "Resolve", "board", board.String(), "agent", agent, "difficulty", difficulty)

	emptyCells := board.EmptyCells()
	if len(emptyCells) == 0 {
		log.Error("no empty cell to resolve a move for")
		return -1
	}

	if that.suggester == nil {
		log.Warn("using random fallback", "error", apperror.ErrSuggestionUnconfigured)
		return that.randomCell(emptyCells)
	}

	suggestion, err := that.suggest(ctx, NewRequest(board, agent, difficulty))
	switch {
	case err == nil && board.IsEmptyAt(suggestion.Move):
		log.Debug("suggestion accepted", "cell", suggestion.Move)
		return suggestion.Move

	case err == nil:
		log.Warn("suggestion is not a legal move, using first empty cell", "cell", suggestion.Move)
		return emptyCells[0]

	case errors.Is(err, apperror.ErrSuggestionInvalidAnswer):
		log.Warn("suggestion is malformed, using first empty cell", "error", err)
		return emptyCells[0]

	default:
		log.Error("failed to get suggestion, using random fallback", "error", err)
		return that.randomCell(emptyCells)
	}
}

func (that *Resolver) suggest(ctx context.Context, request entity.SuggestionRequest) (entity.Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	resultCh := make(chan suggestResult, 1)
	go func() {
		suggestion, err := that.suggester.Suggest(ctx, request)
		resultCh <- suggestResult{suggestion: suggestion, err: err}
	}()

	select {
	case result := <-resultCh:
		return result.suggestion, result.err
	case <-ctx.Done():
		return entity.Suggestion{}, ctx.Err()
	}
}

func (that *Resolver) randomCell(emptyCells []int) int {
	return emptyCells[that.intN(len(emptyCells))]
}
