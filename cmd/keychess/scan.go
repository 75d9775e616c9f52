package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/DrJosh9000/keychess/game"
)

var flagCycles int

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Show the row and column of each key pressed",
	Long: `Show "pd <row> <col>" on the LCD for each key pressed, for checking
keypad wiring. Runs until interrupted unless --cycles is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRig()
		if err != nil {
			return err
		}
		defer r.close()
		return r.runWith(cmd.Context(), func(ctx context.Context) error {
			return game.ScanKeys(ctx, r.scanner, r.display, flagCycles)
		})
	},
}

var echoCmd = &cobra.Command{
	Use:   "echo",
	Short: "Echo coordinates entered on the keypad",
	Long: `Read two squares at a time from the keypad and show them on the LCD,
then "Done cycle" with a flash of the busy light. This checks the key layout
without playing a game.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRig()
		if err != nil {
			return err
		}
		defer r.close()
		return r.runWith(cmd.Context(), func(ctx context.Context) error {
			return game.EchoCoordinates(ctx, r.input(), r.display, r.indicator, flagCycles)
		})
	},
}

func init() {
	scanCmd.Flags().IntVar(&flagCycles, "cycles", 0, "stop after this many keys (0 runs forever)")
	echoCmd.Flags().IntVar(&flagCycles, "cycles", 0, "stop after this many pairs of squares (0 runs forever)")
}
