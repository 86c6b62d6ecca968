package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
	"github.com/rocketscienceinc/tictactoe-agent/internal/repository"
)

type suggester interface {
	Suggest(ctx context.Context, request entity.SuggestionRequest) (entity.Suggestion, error)
}

type suggestionRepo interface {
	CreateOrUpdate(ctx context.Context, key string, suggestion entity.Suggestion) error
	GetByKey(ctx context.Context, key string) (entity.Suggestion, error)
}

// Suggester remembers hard-tier answers per board. Easy and medium answers
// are meant to vary and always go to the wrapped suggester.
type Suggester struct {
	logger         *slog.Logger
	next           suggester
	suggestionRepo suggestionRepo
}

func New(logger *slog.Logger, next suggester, suggestionRepo suggestionRepo) *Suggester {
	return &Suggester{
		logger:         logger.With("component", "suggestion-cache"),
		next:           next,
		suggestionRepo: suggestionRepo,
	}
}

func (that *Suggester) Suggest(ctx context.Context, request entity.SuggestionRequest) (entity.Suggestion, error) {
	if request.Difficulty != entity.Hard {
		return that.next.Suggest(ctx, request) //nolint: wrapcheck // errors are classified by the caller
	}

	log := that.logger.With("method", "Suggest")
	key := repository.SuggestionKey(request.Agent, request.Board)

	cached, err := that.suggestionRepo.GetByKey(ctx, key)
	switch {
	case err == nil && request.Board.IsEmptyAt(cached.Move):
		log.Debug("suggestion cache hit", "key", key, "cell", cached.Move)
		return cached, nil
	case err == nil:
		log.Warn("ignoring illegal cached suggestion", "key", key, "cell", cached.Move)
	case !errors.Is(err, repository.ErrSuggestionNotFound):
		log.Error("failed to read suggestion cache", "key", key, "error", err)
	}

	suggestion, err := that.next.Suggest(ctx, request)
	if err != nil {
		return entity.Suggestion{}, err //nolint: wrapcheck // errors are classified by the caller
	}

	if !request.Board.IsEmptyAt(suggestion.Move) {
		return suggestion, nil
	}

	if err = that.suggestionRepo.CreateOrUpdate(ctx, key, suggestion); err != nil {
		log.Error("failed to write suggestion cache", "key", key, "error", err)
	}

	return suggestion, nil
}
