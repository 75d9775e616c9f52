package game_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrJosh9000/keychess/game"
	"github.com/DrJosh9000/keychess/game/gametest"
	"github.com/DrJosh9000/keychess/internal/faults"
	"github.com/DrJosh9000/keychess/keypad"
	"github.com/DrJosh9000/keychess/keypad/keypadtest"
	"github.com/DrJosh9000/keychess/notation"
)

// keysFor returns the key presses that enter text on the default layout.
func keysFor(t *testing.T, text string) []keypad.Position {
	t.Helper()
	l := notation.DefaultLayout()
	var ps []keypad.Position
	for i, c := range text {
		var (
			p  keypad.Position
			ok bool
		)
		if i%2 == 0 {
			p, ok = l.FileKey(notation.File(c - 'a'))
		} else {
			p, ok = l.RankKey(notation.Rank(c - '1'))
		}
		require.True(t, ok, "no key for %q", c)
		ps = append(ps, p)
	}
	return ps
}

func newKeypadInput(t *testing.T, m *keypadtest.Matrix) *game.KeypadInput {
	t.Helper()
	s, err := keypad.New(m, keypad.Config{Rows: 4, Cols: 4})
	require.NoError(t, err)
	return &game.KeypadInput{Scanner: s, Layout: notation.DefaultLayout()}
}

func TestKeypadInputReadsMove(t *testing.T) {
	m := keypadtest.New()
	m.Script(keysFor(t, "e2e4")...)
	in := newKeypadInput(t, m)
	d := gametest.NewDisplay()

	mv, err := in.NextMove(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, "e2e4", mv.String())
	assert.Equal(t, "Player: e2e4", d.Line(0))
	assert.Zero(t, m.Pending())
}

func TestKeypadInputCastling(t *testing.T) {
	tests := []struct {
		keys string
		want string
	}{
		{keys: "a1a1", want: "O-O"},
		{keys: "b2b2", want: "O-O-O"},
	}
	for _, test := range tests {
		t.Run(test.keys, func(t *testing.T) {
			m := keypadtest.New()
			m.Script(keysFor(t, test.keys)...)
			in := newKeypadInput(t, m)
			d := gametest.NewDisplay()

			mv, err := in.NextMove(context.Background(), d)
			require.NoError(t, err)
			assert.Equal(t, test.want, mv.String())
			assert.Equal(t, "Player: "+test.want, d.Line(0))
		})
	}
}

func TestKeypadInputIgnoresOtherHalf(t *testing.T) {
	m := keypadtest.New()
	// A rank key while a file is expected, and a file key while a rank is
	// expected, are both skipped.
	rank2 := keysFor(t, "a2")[1]
	fileE := keysFor(t, "e2")[0]
	m.Script(rank2, fileE, fileE, rank2)
	in := newKeypadInput(t, m)
	d := gametest.NewDisplay()

	f, r, err := in.ReadSquare(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, notation.File(4), f)
	assert.Equal(t, notation.Rank(1), r)
	assert.Equal(t, "e2", d.Line(0))
}

func TestKeypadInputAwaitRelease(t *testing.T) {
	m := keypadtest.New()
	m.HoldCycles(3)
	m.Script(keysFor(t, "c7")[0])
	in := newKeypadInput(t, m)
	in.AwaitRelease = true

	f, err := in.ReadFile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, notation.File(2), f)
	assert.Equal(t, 4, m.Cycles(), "one cycle to read, three more until let go")
}

func TestKeypadInputCancelled(t *testing.T) {
	in := newKeypadInput(t, keypadtest.New())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := in.NextMove(ctx, gametest.NewDisplay())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScanKeys(t *testing.T) {
	m := keypadtest.New()
	m.Script(keypad.Position{Row: 1, Col: 2})
	s, err := keypad.New(m, keypad.Config{Rows: 4, Cols: 4})
	require.NoError(t, err)
	d := gametest.NewDisplay()

	require.NoError(t, game.ScanKeys(context.Background(), s, d, 1))
	assert.Equal(t, "pd 1 2", d.Line(0))
}

func TestEchoCoordinates(t *testing.T) {
	m := keypadtest.New()
	m.Script(keysFor(t, "g1h8")...)
	in := newKeypadInput(t, m)
	d := gametest.NewDisplay()
	ind := &gametest.Indicator{}

	require.NoError(t, game.EchoCoordinates(context.Background(), in, d, ind, 1))
	assert.Equal(t, "g1h8", d.Line(0))
	assert.Equal(t, "Done cycle", d.Line(1))
	assert.Equal(t, []bool{true, false}, ind.Levels)
}

func TestBlink(t *testing.T) {
	ind := &gametest.Indicator{}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, game.Blink(ctx, ind, 5*time.Millisecond))
	require.NotEmpty(t, ind.Levels)
	for i, on := range ind.Levels {
		assert.Equal(t, i%2 == 0, on, "level %d", i)
	}
	assert.False(t, ind.Levels[len(ind.Levels)-1], "left off")
}

func TestMirror(t *testing.T) {
	var buf bytes.Buffer
	d := gametest.NewDisplay()
	m := &game.Mirror{Display: d, W: &buf}

	require.NoError(t, m.SetCursor(game.MoveLine))
	require.NoError(t, m.WriteString("Player: "))
	require.NoError(t, m.WriteString("e2"))
	require.NoError(t, m.SetCursor(game.StatusLine))
	require.NoError(t, m.WriteString("                    "))
	require.NoError(t, m.SetCursor(game.StatusLine))
	require.NoError(t, m.WriteString("Evaluating..."))
	require.NoError(t, m.Clear())

	assert.Equal(t, "Player: e2\r\nEvaluating...\r\n", buf.String())
	assert.Equal(t, "", d.Line(0))
}

type failWriter struct{ err error }

func (w failWriter) Write([]byte) (int, error) { return 0, w.err }

func TestMirrorReportsConsoleErrors(t *testing.T) {
	uartErr := errors.New("uart overrun")
	d := gametest.NewDisplay()
	m := &game.Mirror{Display: d, W: failWriter{uartErr}}

	err := m.WriteString("Player: ")
	assert.ErrorIs(t, err, faults.ErrPeripheral)
	assert.ErrorIs(t, err, uartErr)
	assert.Equal(t, "Player:", d.Line(0), "the LCD is still written")

	err = m.SetCursor(game.StatusLine)
	assert.ErrorIs(t, err, uartErr)

	assert.NoError(t, m.WriteString("   "), "blank writes are not copied")
}
