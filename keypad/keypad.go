// Package keypad scans a matrix of momentary switches wired as drive lines
// and sense lines, without interrupts.
//
// A 4x4 membrane keypad is the usual target:
//
//	+---+---+---+---+
//	|0,0|0,1|0,2|0,3|
//	+---+---+---+---+
//	|1,0|1,1|1,2|1,3|
//	+---+---+---+---+
//	|2,0|2,1|2,2|2,3|
//	+---+---+---+---+
//	|3,0|3,1|3,2|3,3|
//	+---+---+---+---+
//
// Sense lines are pulled up, so a pressed key reads Low on its sense line
// while its drive line is driven Low.
package keypad

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/DrJosh9000/keychess/internal/faults"
)

// Level is a logic level on a pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// Matrix is the GPIO capability the Scanner drives. Drive lines are called
// rows and sense lines columns, whatever the physical orientation.
type Matrix interface {
	// SetRowDrive drives one drive line to level.
	SetRowDrive(row int, level Level) error
	// ReadColumn samples one sense line.
	ReadColumn(col int) (Level, error)
}

// Position identifies one key by its keypad row and column.
type Position struct {
	Row, Col int
}

func (p Position) String() string {
	return strconv.Itoa(p.Row) + "," + strconv.Itoa(p.Col)
}

// State holds one poll's readings, State[row][col] true when pressed.
type State [][]bool

// Pressed returns the pressed positions in row-major order.
func (s State) Pressed() []Position {
	var ps []Position
	for r, row := range s {
		for c, down := range row {
			if down {
				ps = append(ps, Position{Row: r, Col: c})
			}
		}
	}
	return ps
}

// Config describes the keypad geometry and scan timing.
type Config struct {
	Rows, Cols int

	// Transposed means the Matrix drive lines are the keypad's columns and
	// its sense lines are the keypad's rows. Positions are always reported
	// in keypad coordinates.
	Transposed bool

	// PollInterval is the wait between scan cycles. Zero re-polls at once.
	PollInterval time.Duration

	// RowSettle is the wait between driving a line and sampling. Zero
	// samples at once.
	RowSettle time.Duration
}

func (c Config) lines() (drive, sense int) {
	if c.Transposed {
		return c.Cols, c.Rows
	}
	return c.Rows, c.Cols
}

// ErrGeometry is returned by New for a keypad with no keys.
var ErrGeometry = errors.New("keypad: rows and columns must be positive")

// Scanner polls a Matrix. It is not safe for concurrent use.
type Scanner struct {
	m   Matrix
	cfg Config
}

// New returns a Scanner with every drive line released (High).
func New(m Matrix, cfg Config) (*Scanner, error) {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil, ErrGeometry
	}
	s := &Scanner{m: m, cfg: cfg}
	drive, _ := cfg.lines()
	for d := 0; d < drive; d++ {
		if err := m.SetRowDrive(d, High); err != nil {
			return nil, faults.PeripheralFault("release line "+strconv.Itoa(d), err)
		}
	}
	return s, nil
}

// Config returns the scanner's configuration.
func (s *Scanner) Config() Config { return s.cfg }

// Poll scans every drive line once, in ascending order, and returns a fresh
// State.
func (s *Scanner) Poll() (State, error) {
	st := make(State, s.cfg.Rows)
	for r := range st {
		st[r] = make([]bool, s.cfg.Cols)
	}
	drive, sense := s.cfg.lines()
	for d := 0; d < drive; d++ {
		if err := s.m.SetRowDrive(d, Low); err != nil {
			return nil, faults.PeripheralFault("drive line "+strconv.Itoa(d), err)
		}
		if s.cfg.RowSettle > 0 {
			time.Sleep(s.cfg.RowSettle)
		}
		if err := s.readLine(st, d, sense); err != nil {
			// Never leave a line low, or the next poll sees its keys on
			// every line. The read error is the one reported.
			s.m.SetRowDrive(d, High)
			return nil, err
		}
		if err := s.m.SetRowDrive(d, High); err != nil {
			return nil, faults.PeripheralFault("release line "+strconv.Itoa(d), err)
		}
	}
	return st, nil
}

// readLine samples every sense line while drive line d is low.
func (s *Scanner) readLine(st State, d, sense int) error {
	for n := 0; n < sense; n++ {
		lvl, err := s.m.ReadColumn(n)
		if err != nil {
			return faults.PeripheralFault("sense line "+strconv.Itoa(n), err)
		}
		if lvl != Low {
			continue
		}
		if s.cfg.Transposed {
			st[n][d] = true
		} else {
			st[d][n] = true
		}
	}
	return nil
}

// BlockUntilKey waits for any key and returns the first pressed position in
// row-major order. With a context that is never cancelled it waits
// indefinitely. There is no debounce: a held key is reported again by the
// next call.
func (s *Scanner) BlockUntilKey(ctx context.Context) (Position, error) {
	return s.BlockUntil(ctx, nil)
}

// BlockUntil is BlockUntilKey restricted to positions accept returns true
// for. Rejected keys are skipped and the same cycle carries on, so a stray
// press elsewhere on the keypad cannot mask an accepted one. A nil accept
// takes any key.
func (s *Scanner) BlockUntil(ctx context.Context, accept func(Position) bool) (Position, error) {
	var tick <-chan time.Time
	if s.cfg.PollInterval > 0 {
		t := time.NewTicker(s.cfg.PollInterval)
		defer t.Stop()
		tick = t.C
	}
	for {
		st, err := s.Poll()
		if err != nil {
			return Position{}, err
		}
		for _, p := range st.Pressed() {
			if accept == nil || accept(p) {
				return p, nil
			}
		}
		if err := s.wait(ctx, tick); err != nil {
			return Position{}, err
		}
	}
}

// WaitRelease blocks until a whole cycle reads no pressed key.
func (s *Scanner) WaitRelease(ctx context.Context) error {
	var tick <-chan time.Time
	if s.cfg.PollInterval > 0 {
		t := time.NewTicker(s.cfg.PollInterval)
		defer t.Stop()
		tick = t.C
	}
	for {
		st, err := s.Poll()
		if err != nil {
			return err
		}
		if len(st.Pressed()) == 0 {
			return nil
		}
		if err := s.wait(ctx, tick); err != nil {
			return err
		}
	}
}

func (s *Scanner) wait(ctx context.Context, tick <-chan time.Time) error {
	if tick == nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	select {
	case <-tick:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
