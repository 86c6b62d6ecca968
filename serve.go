package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-agent/internal"
	"github.com/rocketscienceinc/tictactoe-agent/internal/config"
	"github.com/rocketscienceinc/tictactoe-agent/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	Long: `Start the game server. Every websocket connection on /ws gets its own
session; GET /ping answers pong.`,
	RunE: runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	conf, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stdout, conf.LogLevel, conf.LogFormat)

	if err = app.RunApp(log, conf); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}

	return nil
}
