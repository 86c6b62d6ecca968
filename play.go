package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-agent/internal"
	"github.com/rocketscienceinc/tictactoe-agent/internal/config"
	"github.com/rocketscienceinc/tictactoe-agent/internal/logger"
)

var (
	flagMode       string
	flagDifficulty string
	flagAgent      string
	flagLogFile    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

Controls:
  Arrows/hjkl    - Move the cursor
  Enter/Space    - Place a mark
  1-9            - Place a mark on that cell
  m              - Toggle player vs player / player vs agent
  d              - Cycle difficulty
  n / N          - New round / new game
  q              - Quit

Examples:
  tictactoe play
  tictactoe play --mode pvp
  tictactoe play --difficulty hard --agent X`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Game mode: pvp, pve")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Agent difficulty: easy, medium, hard")
	playCmd.Flags().StringVar(&flagAgent, "agent", "", "Mark played by the agent: X, O")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "tictactoe.log", "Write logs to this file (empty disables logging)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	conf, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if flagMode != "" {
		conf.Session.Mode = flagMode
	}

	if flagDifficulty != "" {
		conf.Session.Difficulty = flagDifficulty
	}

	if flagAgent != "" {
		conf.Session.AgentMark = flagAgent
	}

	var out io.Writer = io.Discard
	if flagLogFile != "" {
		file, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer file.Close()

		out = file
	}

	if err = app.RunPlay(logger.New(out, conf.LogLevel, conf.LogFormat), conf); err != nil {
		return fmt.Errorf("play failed: %w", err)
	}

	return nil
}
