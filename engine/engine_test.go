package engine_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrJosh9000/keychess/engine"
	"github.com/DrJosh9000/keychess/game"
	"github.com/DrJosh9000/keychess/game/gametest"
	"github.com/DrJosh9000/keychess/internal/faults"
	"github.com/DrJosh9000/keychess/notation"
)

func fromFEN(t *testing.T, fen string) engine.Position {
	t.Helper()
	p, err := engine.FromFEN(fen)
	require.NoError(t, err)
	return p
}

func move(t *testing.T, s string) notation.Move {
	t.Helper()
	m, err := engine.Engine{}.ParseMove(s)
	require.NoError(t, err)
	return m
}

// play applies moves in turn, requiring each but the last to continue the
// game, and returns the last result.
func play(t *testing.T, p game.Position, moves ...string) game.Result {
	t.Helper()
	var r game.Result
	for i, s := range moves {
		r = engine.Engine{}.Apply(p, move(t, s))
		if i < len(moves)-1 {
			require.Equal(t, game.Continuing, r.Kind, "move %d (%s): %s", i, s, r.Reason)
		}
		p = r.Position
	}
	return r
}

func TestStart(t *testing.T) {
	p := engine.Start()
	assert.Equal(t, game.White, p.SideToMove())
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", p.String())
}

func TestFromFENRejectsGarbage(t *testing.T) {
	_, err := engine.FromFEN("not a position")
	assert.Error(t, err)
}

func TestApplyLegal(t *testing.T) {
	r := play(t, engine.Start(), "e2e4")
	require.Equal(t, game.Continuing, r.Kind)
	assert.Equal(t, game.Black, r.Position.SideToMove())
	assert.True(t, strings.HasPrefix(r.Position.String(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b"), r.Position.String())
}

func TestApplyIllegal(t *testing.T) {
	for _, m := range []string{"e2e5", "e7e5", "O-O", "O-O-O", "a1a2"} {
		r := engine.Engine{}.Apply(engine.Start(), move(t, m))
		assert.Equal(t, game.IllegalMove, r.Kind, m)
		assert.NotEmpty(t, r.Reason, m)
	}
}

func TestApplyForeignPosition(t *testing.T) {
	r := engine.Engine{}.Apply(gametest.Position{}, move(t, "e2e4"))
	assert.Equal(t, game.IllegalMove, r.Kind)
}

func TestFoolsMate(t *testing.T) {
	r := play(t, engine.Start(), "f2f3", "e7e5", "g2g4", "d8h4")
	assert.Equal(t, game.Victory, r.Kind)
	assert.Equal(t, game.Black, r.Winner)
}

func TestCastling(t *testing.T) {
	const fen = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"
	tests := []struct {
		move string
		want string
	}{
		{move: "O-O", want: "r3k2r/8/8/8/8/8/8/R4RK1 b"},
		{move: "O-O-O", want: "r3k2r/8/8/8/8/8/8/2KR3R b"},
		{move: "e1g1", want: "r3k2r/8/8/8/8/8/8/R4RK1 b"},
	}
	for _, test := range tests {
		t.Run(test.move, func(t *testing.T) {
			r := play(t, fromFEN(t, fen), test.move)
			require.Equal(t, game.Continuing, r.Kind, r.Reason)
			assert.True(t, strings.HasPrefix(r.Position.String(), test.want), r.Position.String())
		})
	}
}

func TestKeypadCastlingSentinels(t *testing.T) {
	p := fromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	r := engine.Engine{}.Apply(p, notation.Build(0, 0, 0, 0))
	require.Equal(t, game.Continuing, r.Kind, r.Reason)
	assert.True(t, strings.HasPrefix(r.Position.String(), "r3k2r/8/8/8/8/8/8/R4RK1 b"))
}

func TestPromotionIsToQueen(t *testing.T) {
	r := play(t, fromFEN(t, "8/4P3/8/8/8/8/k7/4K3 w - - 0 1"), "e7e8")
	require.Equal(t, game.Continuing, r.Kind, r.Reason)
	assert.True(t, strings.HasPrefix(r.Position.String(), "4Q3/8/8/8/8/8/k7/4K3 b"), r.Position.String())
}

func TestApplyStalemate(t *testing.T) {
	r := play(t, fromFEN(t, "7k/8/8/5QK1/8/8/8/8 w - - 0 1"), "f5f7")
	assert.Equal(t, game.Stalemated, r.Kind)
}

func TestSearchStalemateIsTerminal(t *testing.T) {
	s, err := engine.Engine{}.Search(fromFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"), 2)
	require.NoError(t, err)
	assert.True(t, s.Terminal)
	assert.Equal(t, game.Stalemate, s.Outcome)
	assert.Equal(t, 1, s.Nodes)
}

func TestSearchCheckmatedIsTerminal(t *testing.T) {
	s, err := engine.Engine{}.Search(fromFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"), 2)
	require.NoError(t, err)
	assert.True(t, s.Terminal)
	assert.Equal(t, game.BlackWins, s.Outcome)
}

func TestSearchFindsMateInOne(t *testing.T) {
	s, err := engine.Engine{}.Search(fromFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"), 2)
	require.NoError(t, err)
	assert.False(t, s.Terminal)
	assert.Equal(t, "a1a8", s.Move.String())
	assert.Greater(t, s.Score, 90000)
}

func TestSearchTakesHangingQueen(t *testing.T) {
	s, err := engine.Engine{}.Search(fromFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1"), 2)
	require.NoError(t, err)
	assert.Equal(t, "d2d5", s.Move.String())
}

func TestSearchMoveIsLegal(t *testing.T) {
	for _, depth := range []int{0, 1, 2} {
		s, err := engine.Engine{}.Search(engine.Start(), depth)
		require.NoError(t, err)
		assert.False(t, s.Terminal)
		assert.Greater(t, s.Nodes, 20, "depth %d", depth)

		r := engine.Engine{}.Apply(engine.Start(), s.Move)
		assert.Equal(t, game.Continuing, r.Kind, "depth %d: %s", depth, r.Reason)
	}
}

func TestSearchForeignPosition(t *testing.T) {
	_, err := engine.Engine{}.Search(gametest.Position{}, 2)
	assert.ErrorIs(t, err, faults.ErrEngine)
}

func TestTerminal(t *testing.T) {
	e := engine.Engine{}

	o, over := e.Terminal(fromFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"))
	assert.True(t, over)
	assert.Equal(t, game.BlackWins, o)

	o, over = e.Terminal(fromFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"))
	assert.True(t, over)
	assert.Equal(t, game.Stalemate, o)

	_, over = e.Terminal(engine.Start())
	assert.False(t, over)

	_, over = e.Terminal(gametest.Position{Label: "elsewhere"})
	assert.False(t, over)
}
