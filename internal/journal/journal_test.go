package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrJosh9000/keychess/game"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func TestRecordAndReplay(t *testing.T) {
	s := openStore(t)
	g, err := s.Begin(startFEN, game.White, 2)
	require.NoError(t, err)

	id, err := uuid.Parse(g.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	moves := []game.MoveRecord{
		{Ply: 1, Player: game.Human, Side: game.White, Notation: "e2e4", Position: "p1"},
		{Ply: 2, Player: game.Computer, Side: game.Black, Notation: "e7e5", Position: "p2", Nodes: 412},
	}
	for _, m := range moves {
		require.NoError(t, g.RecordMove(m))
	}
	require.NoError(t, g.Finish(game.WhiteWins))

	got, err := s.Moves(g.ID)
	require.NoError(t, err)
	assert.Equal(t, moves, got)

	list, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	sum := list[0]
	assert.Equal(t, g.ID, sum.ID)
	assert.Equal(t, startFEN, sum.Start)
	assert.Equal(t, game.White, sum.Human)
	assert.Equal(t, 2, sum.Depth)
	assert.Equal(t, 2, sum.Moves)
	assert.Equal(t, "White wins.", sum.Outcome)
	assert.True(t, sum.Finished.After(sum.Started))
}

func TestDuplicatePlyRejected(t *testing.T) {
	s := openStore(t)
	g, err := s.Begin(startFEN, game.Black, 1)
	require.NoError(t, err)

	m := game.MoveRecord{Ply: 1, Player: game.Computer, Side: game.White, Notation: "d2d4"}
	require.NoError(t, g.RecordMove(m))
	assert.Error(t, g.RecordMove(m))
}

func TestListNewestFirst(t *testing.T) {
	s := openStore(t)
	var ids []string
	for i := 0; i < 3; i++ {
		g, err := s.Begin(startFEN, game.White, 2)
		require.NoError(t, err)
		ids = append(ids, g.ID)
	}

	list, err := s.List(2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[1], list[1].ID)
	assert.Empty(t, list[0].Outcome)
	assert.True(t, list[0].Finished.IsZero())
}

func TestUnknownGame(t *testing.T) {
	s := openStore(t)
	_, err := s.Moves("no-such-game")
	assert.ErrorIs(t, err, ErrGameNotFound)

	g := &Game{s: s, ID: "no-such-game"}
	assert.ErrorIs(t, g.Finish(game.Stalemate), ErrGameNotFound)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	s, err := Open(path)
	require.NoError(t, err)
	g, err := s.Begin(startFEN, game.White, 2)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	list, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, g.ID, list[0].ID)
}
