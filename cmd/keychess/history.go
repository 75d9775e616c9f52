package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/DrJosh9000/keychess/engine"
	"github.com/DrJosh9000/keychess/game"
	"github.com/DrJosh9000/keychess/internal/journal"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history [game-id]",
	Short: "List recorded games, or replay one",
	Long: `With no argument, list the games in the journal, newest first. With a
game ID, list that game's moves and draw the final position.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Journal
		if flagJournal != "" {
			path = flagJournal
		}
		if path == "" {
			return errors.New("no journal: set journal in the config or pass --journal")
		}
		store, err := journal.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		w := cmd.OutOrStdout()
		if len(args) == 0 {
			return listGames(w, store)
		}
		return showGame(w, store, args[0])
	},
}

func init() {
	historyCmd.Flags().StringVar(&flagJournal, "journal", "", "SQLite journal file (default from config)")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "list at most this many games (0 for all)")
}

func listGames(w io.Writer, store *journal.Store) error {
	games, err := store.List(flagLimit)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(w, "no games recorded")
		return nil
	}
	for _, g := range games {
		outcome := g.Outcome
		if outcome == "" {
			outcome = "unfinished"
		}
		fmt.Fprintf(w, "%s  %s  human=%s depth=%d moves=%d  %s\n",
			g.ID, g.Started.Local().Format(time.DateTime), g.Human, g.Depth, g.Moves, outcome)
	}
	return nil
}

func showGame(w io.Writer, store *journal.Store, id string) error {
	moves, err := store.Moves(id)
	if err != nil {
		return err
	}
	for _, m := range moves {
		fmt.Fprintf(w, "%3d. %-5s %-8s %s", m.Ply, m.Side, m.Player, m.Notation)
		if m.Player == game.Computer {
			fmt.Fprintf(w, " (%d nodes)", m.Nodes)
		}
		fmt.Fprintln(w)
	}
	if len(moves) == 0 {
		fmt.Fprintln(w, "no moves")
		return nil
	}
	last, err := engine.FromFEN(moves[len(moves)-1].Position)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, last.Board())
	return nil
}
