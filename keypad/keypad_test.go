package keypad_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrJosh9000/keychess/internal/faults"
	"github.com/DrJosh9000/keychess/keypad"
	"github.com/DrJosh9000/keychess/keypad/keypadtest"
)

func newScanner(t *testing.T, m keypad.Matrix, cfg keypad.Config) *keypad.Scanner {
	t.Helper()
	if cfg.Rows == 0 {
		cfg.Rows, cfg.Cols = 4, 4
	}
	s, err := keypad.New(m, cfg)
	require.NoError(t, err)
	return s
}

func TestNewRejectsEmptyGeometry(t *testing.T) {
	_, err := keypad.New(keypadtest.New(), keypad.Config{Rows: 0, Cols: 4})
	assert.ErrorIs(t, err, keypad.ErrGeometry)
}

func TestPollNothingPressed(t *testing.T) {
	m := keypadtest.New()
	s := newScanner(t, m, keypad.Config{})

	st, err := s.Poll()
	require.NoError(t, err)
	require.Len(t, st, 4)
	for _, row := range st {
		assert.Equal(t, []bool{false, false, false, false}, row)
	}
	assert.Empty(t, st.Pressed())
	assert.Equal(t, 16, m.Reads(), "one sample per cell")
}

func TestPollActiveLow(t *testing.T) {
	m := keypadtest.New()
	m.Hold(keypad.Position{Row: 2, Col: 1})
	m.Hold(keypad.Position{Row: 0, Col: 3})
	s := newScanner(t, m, keypad.Config{})

	st, err := s.Poll()
	require.NoError(t, err)
	assert.Equal(t, []keypad.Position{{Row: 0, Col: 3}, {Row: 2, Col: 1}}, st.Pressed())
}

func TestPollTransposed(t *testing.T) {
	m := keypadtest.New()
	// Drive line 3 is keypad column 3, sense line 1 is keypad row 1.
	m.Hold(keypad.Position{Row: 3, Col: 1})
	s := newScanner(t, m, keypad.Config{Rows: 4, Cols: 4, Transposed: true})

	st, err := s.Poll()
	require.NoError(t, err)
	assert.Equal(t, []keypad.Position{{Row: 1, Col: 3}}, st.Pressed())
}

func TestStuckKeyDetectedOnFirstCycle(t *testing.T) {
	m := keypadtest.New()
	m.Hold(keypad.Position{Row: 1, Col: 2})
	s := newScanner(t, m, keypad.Config{})

	p, err := s.BlockUntilKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, keypad.Position{Row: 1, Col: 2}, p)
	assert.Equal(t, 1, m.Cycles())
}

func TestBlockUntilKeyRowMajor(t *testing.T) {
	m := keypadtest.New()
	m.Hold(keypad.Position{Row: 3, Col: 0})
	m.Hold(keypad.Position{Row: 1, Col: 3})
	s := newScanner(t, m, keypad.Config{})

	p, err := s.BlockUntilKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, keypad.Position{Row: 1, Col: 3}, p)
}

func TestBlockUntilKeyWaitsForPress(t *testing.T) {
	m := keypadtest.New()
	m.HoldCycles(1)
	// Nothing for the first key's cycle because (9,9) is off the keypad.
	m.Script(keypad.Position{Row: 9, Col: 9}, keypad.Position{Row: 2, Col: 2})
	s := newScanner(t, m, keypad.Config{})

	p, err := s.BlockUntilKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, keypad.Position{Row: 2, Col: 2}, p)
	assert.Equal(t, 2, m.Cycles())
}

func TestBlockUntilSkipsRejectedKeysInSameCycle(t *testing.T) {
	m := keypadtest.New()
	m.Hold(keypad.Position{Row: 0, Col: 0})
	m.Hold(keypad.Position{Row: 3, Col: 3})
	s := newScanner(t, m, keypad.Config{})

	p, err := s.BlockUntil(context.Background(), func(p keypad.Position) bool { return p.Row >= 2 })
	require.NoError(t, err)
	assert.Equal(t, keypad.Position{Row: 3, Col: 3}, p)
	assert.Equal(t, 1, m.Cycles())
}

func TestBlockUntilCancelled(t *testing.T) {
	m := keypadtest.New()
	s := newScanner(t, m, keypad.Config{PollInterval: time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.BlockUntilKey(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, m.Cycles(), 0)
}

func TestBlockUntilCancelledWhileSpinning(t *testing.T) {
	m := keypadtest.New()
	s := newScanner(t, m, keypad.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.BlockUntilKey(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, m.Cycles(), "polls once before noticing cancellation")
}

func TestWaitRelease(t *testing.T) {
	m := keypadtest.New()
	m.Script(keypad.Position{Row: 0, Col: 1}, keypad.Position{Row: 0, Col: 2})
	s := newScanner(t, m, keypad.Config{})

	require.NoError(t, s.WaitRelease(context.Background()))
	assert.Equal(t, 3, m.Cycles())
	assert.Zero(t, m.Pending())
}

func TestPeripheralFaults(t *testing.T) {
	pinErr := errors.New("pin halted")

	m := keypadtest.New()
	s := newScanner(t, m, keypad.Config{})
	m.ReadErr = pinErr
	_, err := s.BlockUntilKey(context.Background())
	assert.ErrorIs(t, err, faults.ErrPeripheral)
	assert.ErrorIs(t, err, pinErr)

	m = keypadtest.New()
	m.DriveErr = pinErr
	_, err = keypad.New(m, keypad.Config{Rows: 4, Cols: 4})
	assert.ErrorIs(t, err, faults.ErrPeripheral)
}

func TestFailedReadReleasesLine(t *testing.T) {
	pinErr := errors.New("pin halted")
	m := keypadtest.New()
	s := newScanner(t, m, keypad.Config{})
	m.Hold(keypad.Position{Row: 2, Col: 1})
	m.ReadErr, m.FailReadAt = pinErr, 6 // line 1, sense line 1

	_, err := s.Poll()
	assert.ErrorIs(t, err, pinErr)
	assert.Equal(t, -1, m.Driven(), "drive line left low after a failed read")

	st, err := s.Poll()
	require.NoError(t, err)
	assert.Equal(t, []keypad.Position{{Row: 2, Col: 1}}, st.Pressed())
}
