// tictactoe runs a Tic-Tac-Toe game against a move-suggestion agent.
//
// Usage:
//
//	tictactoe serve   - Start the HTTP and websocket server
//	tictactoe play    - Play in the terminal
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagConfig string

// main - is the entry point of the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tictactoe",
	Short: "Tic-Tac-Toe against a move-suggestion agent",
	Long: `Play Tic-Tac-Toe against another player or an agent whose moves come
from a move-suggestion service.

Examples:
  tictactoe serve --config ./config.yml
  tictactoe play --mode pve --difficulty hard`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "./config.yml", "Path to the config file (environment only when missing)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
}
