package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrJosh9000/keychess/game"
	"github.com/DrJosh9000/keychess/internal/journal"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagJournal, flagLimit, flagBoard, flagConfig = "", 20, "", ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBoards(t *testing.T) {
	out, err := execute(t, "boards")
	require.NoError(t, err)
	assert.Contains(t, out, "* rpi-header")
	assert.Contains(t, out, "  pico")
	assert.Contains(t, out, "keypad drive GPIO5 GPIO6 GPIO13 GPIO19")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "keychess dev\n", out)
}

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	_, err = parseLevel("loud")
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	store, err := journal.Open(path)
	require.NoError(t, err)
	g, err := store.Begin("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", game.White, 2)
	require.NoError(t, err)
	require.NoError(t, g.RecordMove(game.MoveRecord{
		Ply: 1, Player: game.Human, Side: game.White, Notation: "e2e4",
		Position: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
	}))
	require.NoError(t, g.RecordMove(game.MoveRecord{
		Ply: 2, Player: game.Computer, Side: game.Black, Notation: "e7e5", Nodes: 412,
		Position: "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
	}))
	require.NoError(t, g.Finish(game.Stalemate))
	require.NoError(t, store.Close())

	out, err := execute(t, "history", "--journal", path)
	require.NoError(t, err)
	assert.Contains(t, out, g.ID)
	assert.Contains(t, out, "human=White depth=2 moves=2")
	assert.Contains(t, out, game.Stalemate.String())

	out, err = execute(t, "history", "--journal", path, g.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "1. White human    e2e4\n")
	assert.Contains(t, out, "2. Black computer e7e5 (412 nodes)\n")

	_, err = execute(t, "history", "--journal", path, "no-such-game")
	assert.ErrorIs(t, err, journal.ErrGameNotFound)
}

func TestHistoryNeedsJournal(t *testing.T) {
	_, err := execute(t, "history")
	assert.Error(t, err)
}

func TestRunWith(t *testing.T) {
	quit := errors.New("quit")
	r := &rig{run: func(ctx context.Context) error { return quit }}
	err := r.runWith(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, quit)

	fnErr := errors.New("display")
	r = &rig{run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	err = r.runWith(context.Background(), func(ctx context.Context) error { return fnErr })
	assert.ErrorIs(t, err, fnErr)

	r = &rig{}
	assert.NoError(t, r.runWith(context.Background(), func(ctx context.Context) error { return nil }))
}
