package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DrJosh9000/keychess/engine"
	"github.com/DrJosh9000/keychess/game"
	"github.com/DrJosh9000/keychess/internal/config"
	"github.com/DrJosh9000/keychess/internal/journal"
)

var (
	flagFEN     string
	flagHuman   string
	flagDepth   int
	flagJournal string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game against the computer",
	Long: `Play a game against the computer. Enter each move as four keys: the
file and rank of the piece, then of its destination. The busy light is lit
while the computer thinks, and blinks once the game is over.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := engine.Start()
		if flagFEN != "" {
			p, err := engine.FromFEN(flagFEN)
			if err != nil {
				return err
			}
			start = p
		}

		human := cfg.HumanSide()
		if flagHuman != "" {
			s, err := game.ParseSide(flagHuman)
			if err != nil {
				return fmt.Errorf("--human: %w", err)
			}
			human = s
		}

		depth := cfg.Engine.Depth
		if cmd.Flags().Changed("depth") {
			if flagDepth < 1 || flagDepth > config.MaxDepth {
				return fmt.Errorf("--depth must be between 1 and %d", config.MaxDepth)
			}
			depth = flagDepth
		}

		r, err := openRig()
		if err != nil {
			return err
		}
		defer r.close()

		loop := &game.Loop{
			Engine:    engine.Engine{},
			Display:   r.display,
			Input:     r.input(),
			Depth:     depth,
			Indicator: r.indicator,
			Counter:   r.counter,
			Logger:    logger,
		}

		path := cfg.Journal
		if flagJournal != "" {
			path = flagJournal
		}
		if path != "" {
			store, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()
			g, err := store.Begin(start.String(), human, depth)
			if err != nil {
				return err
			}
			loop.Journal = g
			logger.Info("recording game", "id", g.ID, "journal", path)
		}

		logger.Info("new game", "human", human, "depth", depth, "fen", start.String())
		return r.runWith(cmd.Context(), func(ctx context.Context) error {
			t, err := loop.Run(ctx, game.NewTurn(start, human))
			if err != nil {
				logger.Error("game stopped", "state", t.State, "ply", t.Ply, "error", err)
				return err
			}
			if r.indicator == nil {
				<-ctx.Done()
				return nil
			}
			return game.Blink(ctx, r.indicator, blinkPeriod)
		})
	},
}

func init() {
	playCmd.Flags().StringVar(&flagFEN, "fen", "", "start from this position (FEN)")
	playCmd.Flags().StringVar(&flagHuman, "human", "", "side the human plays: white or black (default from config)")
	playCmd.Flags().IntVar(&flagDepth, "depth", 0, "engine search depth (default from config)")
	playCmd.Flags().StringVar(&flagJournal, "journal", "", "record the game in this SQLite file (default from config)")
}
