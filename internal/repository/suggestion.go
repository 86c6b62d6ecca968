package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

var ErrSuggestionNotFound = errors.New("suggestion not found")

type SuggestionRepository interface {
	CreateOrUpdate(ctx context.Context, key string, suggestion entity.Suggestion) error
	GetByKey(ctx context.Context, key string) (entity.Suggestion, error)
	DeleteByKey(ctx context.Context, key string) error
}

type dbSuggestion struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSuggestionRepository stores suggestions for ttl; zero keeps them forever.
func NewSuggestionRepository(client *redis.Client, ttl time.Duration) SuggestionRepository {
	return &dbSuggestion{
		client: client,
		ttl:    ttl,
	}
}

// SuggestionKey identifies the answer for agent on board, e.g. "O:X---X---O".
func SuggestionKey(agent entity.Player, board entity.Board) string {
	return agent.String() + ":" + board.String()
}

func (that *dbSuggestion) CreateOrUpdate(ctx context.Context, key string, suggestion entity.Suggestion) error {
	suggestionJSON, err := json.Marshal(suggestion)
	if err != nil {
		return fmt.Errorf("could not marshal suggestion: %w", err)
	}

	err = that.client.Set(ctx, "suggestion:"+key, suggestionJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set suggestion: %w", err)
	}

	return nil
}

func (that *dbSuggestion) GetByKey(ctx context.Context, key string) (entity.Suggestion, error) {
	response, err := that.client.Get(ctx, "suggestion:"+key).Result()

	if errors.Is(err, redis.Nil) {
		return entity.Suggestion{}, ErrSuggestionNotFound
	}

	if err != nil {
		return entity.Suggestion{}, fmt.Errorf("failed to get suggestion: %w", err)
	}

	var suggestion entity.Suggestion
	if err = json.Unmarshal([]byte(response), &suggestion); err != nil {
		return entity.Suggestion{}, fmt.Errorf("failed to unmarshal suggestion: %w", err)
	}

	return suggestion, nil
}

func (that *dbSuggestion) DeleteByKey(ctx context.Context, key string) error {
	if err := that.client.Del(ctx, "suggestion:"+key).Err(); err != nil {
		return fmt.Errorf("failed to delete suggestion: %w", err)
	}

	return nil
}
