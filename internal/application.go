package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-agent/internal/config"
	"github.com/rocketscienceinc/tictactoe-agent/internal/repository"
	"github.com/rocketscienceinc/tictactoe-agent/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-agent/internal/resolver"
	"github.com/rocketscienceinc/tictactoe-agent/internal/session"
	"github.com/rocketscienceinc/tictactoe-agent/internal/suggest/cache"
	"github.com/rocketscienceinc/tictactoe-agent/internal/suggest/gemini"
	"github.com/rocketscienceinc/tictactoe-agent/internal/suggest/local"
	"github.com/rocketscienceinc/tictactoe-agent/internal/transport/tui"
	"github.com/rocketscienceinc/tictactoe-agent/internal/transport/websocket"
	"github.com/rocketscienceinc/tictactoe-agent/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the HTTP and websocket server until a shutdown signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signalContext(log)
	defer cancel()

	moveResolver, closeSuggester, err := NewResolver(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeSuggester()

	options, err := SessionOptions(conf)
	if err != nil {
		return err
	}

	wsServer := websocket.New(logger, moveResolver, websocket.Config{SessionOptions: options})
	router := rest.NewRouter(logger, wsServer)

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err = rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// RunPlay - runs the terminal client against a local session.
func RunPlay(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "play")

	ctx, cancel := signalContext(log)
	defer cancel()

	moveResolver, closeSuggester, err := NewResolver(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeSuggester()

	options, err := SessionOptions(conf)
	if err != nil {
		return err
	}

	game := session.New(ctx, logger, moveResolver, options...)
	defer func() {
		cancel()
		game.Wait()
	}()

	return tui.Run(ctx, game) //nolint: wrapcheck // already wrapped by tui
}

// NewResolver builds the move resolver for the configured suggestion provider.
// The returned function releases the suggestion cache connection.
func NewResolver(ctx context.Context, logger *slog.Logger, conf *config.Config) (*resolver.Resolver, func(), error) {
	log := logger.With("component", "app", "method", "NewResolver")
	closeFn := func() {}

	var suggester resolver.Suggester
	switch conf.Suggestion.Provider {
	case config.ProviderLocal:
		suggester = local.New()
	default:
		if conf.Suggestion.APIKey == "" {
			log.Warn("suggestion API key is not set, agent moves will be random")
		}

		geminiClient, err := gemini.New(ctx, logger, &http.Client{Timeout: conf.Suggestion.Timeout}, gemini.Config{
			APIKey:      conf.Suggestion.APIKey,
			Model:       conf.Suggestion.Model,
			BaseURL:     conf.Suggestion.BaseURL,
			Temperature: conf.Suggestion.Temperature,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create suggestion client: %w", err)
		}

		suggester = geminiClient
	}

	if conf.Redis.Enabled {
		redisAddrString := conf.Redis.GetRedisAddr()
		if conf.Redis.Host == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		closeFn = func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		suggestionRepo := repository.NewSuggestionRepository(redisStorage.Connection, conf.Suggestion.CacheTTL)
		suggester = cache.New(logger, suggester, suggestionRepo)

		log.Info("suggestion cache enabled", "addr", redisAddrString, "ttl", conf.Suggestion.CacheTTL)
	}

	return resolver.New(logger, suggester, resolver.WithTimeout(conf.Suggestion.Timeout)), closeFn, nil
}

// SessionOptions converts the session section of the config.
func SessionOptions(conf *config.Config) ([]session.Option, error) {
	mode, err := conf.Session.GameMode()
	if err != nil {
		return nil, err //nolint: wrapcheck // already wrapped by config
	}

	difficulty, err := conf.Session.GameDifficulty()
	if err != nil {
		return nil, err //nolint: wrapcheck // already wrapped by config
	}

	agent, err := conf.Session.Agent()
	if err != nil {
		return nil, err //nolint: wrapcheck // already wrapped by config
	}

	return []session.Option{
		session.WithMode(mode),
		session.WithDifficulty(difficulty),
		session.WithAgent(agent),
	}, nil
}

func signalContext(log *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}

		signal.Stop(sigs)
	}()

	return ctx, cancel
}
