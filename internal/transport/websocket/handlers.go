package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-agent/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
	"github.com/rocketscienceinc/tictactoe-agent/internal/session"
)

var (
	ErrInvalidMessage = errors.New("invalid message format")
	ErrInvalidPayload = errors.New("invalid payload")
	ErrUnknownAction  = errors.New("unknown action")
)

// handleMessage applies one client action. Successful changes reach the
// client through the session subscription; everything else is answered here.
func (that *Server) handleMessage(ctx context.Context, conn *websocket.Conn, game *session.Session, msg *Message) error {
	log := that.logger.With("method", "handleMessage", "action", msg.Action)

	var err error
	switch msg.Action {
	case ActionMove:
		err = that.handleMove(ctx, conn, game, msg)
	case ActionMode:
		err = that.handleMode(game, msg)
	case ActionDifficulty:
		err = that.handleDifficulty(game, msg)
	case ActionRound:
		game.StartNewRound()
	case ActionNew:
		game.StartNewGame()
	case ActionState:
		return that.sendState(ctx, conn, game.State())
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
	}

	if errors.Is(err, ErrInvalidPayload) || errors.Is(err, ErrUnknownAction) {
		log.Warn("rejected client message", "error", err)
		return that.sendError(ctx, conn, msg.Action, err)
	}

	return err
}

func (that *Server) handleMove(ctx context.Context, conn *websocket.Conn, game *session.Session, msg *Message) error {
	var payload MovePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Cell == nil {
		return fmt.Errorf("%w: cell is required", ErrInvalidPayload)
	}

	err := game.ApplyMove(*payload.Cell)
	if errors.Is(err, apperror.ErrInvalidMoveAttempt) {
		// a rejected move is not an error for the player; resend the unchanged state
		that.logger.Debug("move rejected", "cell", *payload.Cell, "reason", err)
		return that.sendState(ctx, conn, game.State())
	}

	if err != nil {
		return fmt.Errorf("failed to apply move: %w", err)
	}

	return nil
}

func (that *Server) handleMode(game *session.Session, msg *Message) error {
	var payload ModePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	mode, err := entity.ParseGameMode(payload.Mode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	game.SetMode(mode)

	return nil
}

func (that *Server) handleDifficulty(game *session.Session, msg *Message) error {
	var payload DifficultyPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	difficulty, err := entity.ParseDifficulty(payload.Difficulty)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	game.SetDifficulty(difficulty)

	return nil
}
