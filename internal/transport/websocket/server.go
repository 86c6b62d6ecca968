package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
	"github.com/rocketscienceinc/tictactoe-agent/internal/session"
)

type moveResolver interface {
	Resolve(ctx context.Context, board entity.Board, agent entity.Player, difficulty entity.Difficulty) int
}

type Config struct {
	// OriginPatterns lists extra hosts allowed to open a connection from a browser.
	OriginPatterns []string
	SessionOptions []session.Option
}

// Server is an HTTP handler that upgrades to WebSocket. Every connection owns
// its own session.
type Server struct {
	logger   *slog.Logger
	resolver moveResolver
	conf     Config
}

func New(logger *slog.Logger, resolver moveResolver, conf Config) *Server {
	return &Server{
		logger:   logger.With("component", "websocket"),
		resolver: resolver,
		conf:     conf,
	}
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP", "connection", uuid.NewString())

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: that.conf.OriginPatterns})
	if err != nil {
		log.Error("failed to accept websocket connection", "error", err)
		return
	}
	defer conn.CloseNow()

	if err = that.serve(r.Context(), log, conn); err != nil {
		log.Error("connection closed with error", "error", err)
		return
	}

	log.Info("connection closed")
	_ = conn.Close(websocket.StatusNormalClosure, "")
}

func (that *Server) serve(ctx context.Context, log *slog.Logger, conn *websocket.Conn) error {
	ctx, cancel := context.WithCancel(ctx)

	game := session.New(ctx, log, that.resolver, that.conf.SessionOptions...)
	defer func() {
		cancel()
		game.Wait()
	}()

	changed := make(chan struct{}, 1)
	unsubscribe := game.Subscribe(func(session.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	go that.pushStates(ctx, log, conn, game, changed)

	log.Info("player connected")

	if err := that.sendState(ctx, conn, game.State()); err != nil {
		return err
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if isClosed(err) {
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			log.Warn("invalid message format", "error", err)

			if err = that.sendError(ctx, conn, "", ErrInvalidMessage); err != nil {
				return err
			}

			continue
		}

		if err = that.handleMessage(ctx, conn, game, &msg); err != nil {
			return err
		}
	}
}

// pushStates sends the latest state whenever the session reports a change,
// including agent moves that land between client messages.
func (that *Server) pushStates(ctx context.Context, log *slog.Logger, conn *websocket.Conn, game *session.Session, changed <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
			if err := that.sendState(ctx, conn, game.State()); err != nil {
				if !isClosed(err) && ctx.Err() == nil {
					log.Error("failed to push state", "error", err)
				}

				return
			}
		}
	}
}

func (that *Server) sendState(ctx context.Context, conn *websocket.Conn, state session.State) error {
	return that.send(ctx, conn, ActionState, state)
}

func (that *Server) sendError(ctx context.Context, conn *websocket.Conn, action string, cause error) error {
	return that.send(ctx, conn, ActionError, ErrorPayload{Action: action, Error: cause.Error()})
}

func (that *Server) send(ctx context.Context, conn *websocket.Conn, action string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err = conn.Write(ctx, websocket.MessageText, response); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func isClosed(err error) bool {
	status := websocket.CloseStatus(err)

	return status == websocket.StatusNormalClosure ||
		status == websocket.StatusGoingAway ||
		errors.Is(err, context.Canceled)
}
