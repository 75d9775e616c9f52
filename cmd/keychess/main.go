// Command keychess plays chess against the computer on a 4x4 keypad and a
// character LCD, either wired to a Raspberry Pi's GPIO header or simulated
// in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DrJosh9000/keychess/internal/config"
	"github.com/DrJosh9000/keychess/internal/sim"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Global flag values.
var (
	flagConfig   string
	flagBoard    string
	flagSim      bool
	flagLogLevel string
	flagLogFile  string
	flagMirror   bool
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "keychess",
	Short: "Play chess on a keypad and a character LCD",
	Long: `keychess plays chess against the computer. Moves are entered on a 4x4
matrix keypad as a file then a rank for each square (a1a1 castles king side,
b2b2 queen side), and the game is shown on a two-line character LCD.

With --sim the keypad and LCD are simulated in the terminal.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := parseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		w, err := logOutput()
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))

		if !needsConfig(cmd) {
			return nil
		}
		c, err := config.Load(flagConfig, flagBoard)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logger.Debug("config loaded", "board", cfg.Board, "file", flagConfig)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&flagBoard, "board", "", "board preset (see 'keychess boards')")
	rootCmd.PersistentFlags().BoolVar(&flagSim, "sim", false, "simulate the keypad and LCD in the terminal")
	rootCmd.PersistentFlags().BoolVar(&flagMirror, "mirror", false, "copy LCD text to stdout (hardware only)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "append logs to this file (default stderr, or nowhere with --sim)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(echoCmd)
	rootCmd.AddCommand(boardsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func needsConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "boards":
		return false
	}
	return true
}

// logOutput picks where logs go. The simulator owns the terminal, so it
// gets no logs unless they go to a file.
func logOutput() (io.Writer, error) {
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return f, nil
	case flagSim:
		return io.Discard, nil
	}
	return os.Stderr, nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("--log-level: %w", err)
	}
	return lvl, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil && !errors.Is(err, sim.ErrQuit) && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "keychess:", err)
		os.Exit(1)
	}
}
