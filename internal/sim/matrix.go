package sim

import (
	"sync"

	"github.com/DrJosh9000/keychess/keypad"
)

// maxQueued is how many key presses may wait for the scanner.
const maxQueued = 16

// Matrix is a keypad.Matrix driven by key presses from the terminal. A
// terminal has no key-up events, so each press is held down for exactly one
// scan cycle. Presses made faster than the scanner polls are queued and
// come down one cycle at a time, in order. A cycle starts each time line 0
// is driven low.
type Matrix struct {
	mu         sync.Mutex
	rows, cols int
	driven     int
	queue      []keypad.Position
	down       bool // queue[0] is down this cycle

	onChange func()
}

// NewMatrix returns a matrix with rows drive lines and cols sense lines.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, driven: -1}
}

// Press queues a press of p. Presses off the matrix, or beyond the queue
// limit, are dropped.
func (m *Matrix) Press(p keypad.Position) {
	m.mu.Lock()
	ok := p.Row >= 0 && p.Row < m.rows && p.Col >= 0 && p.Col < m.cols && len(m.queue) < maxQueued
	if ok {
		m.queue = append(m.queue, p)
	}
	m.mu.Unlock()
	if ok {
		m.changed()
	}
}

// Queued returns the number of presses not yet fully scanned.
func (m *Matrix) Queued() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *Matrix) SetRowDrive(row int, level keypad.Level) error {
	m.mu.Lock()
	if level == keypad.High {
		if m.driven == row {
			m.driven = -1
		}
		m.mu.Unlock()
		return nil
	}
	changed := false
	if row == 0 {
		changed = m.cycle()
	}
	m.driven = row
	m.mu.Unlock()
	if changed {
		m.changed()
	}
	return nil
}

// cycle lifts the key that was down and puts down the next one.
func (m *Matrix) cycle() bool {
	changed := false
	if m.down {
		m.queue = m.queue[1:]
		m.down = false
		changed = true
	}
	if len(m.queue) > 0 {
		m.down = true
		changed = true
	}
	return changed
}

func (m *Matrix) ReadColumn(col int) (keypad.Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down && m.driven >= 0 && m.queue[0] == (keypad.Position{Row: m.driven, Col: col}) {
		return keypad.Low, nil
	}
	return keypad.High, nil
}

// latched returns the keys drawn as pressed: the one down, or else the next
// one waiting.
func (m *Matrix) latched() map[keypad.Position]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return nil
	}
	return map[keypad.Position]bool{m.queue[0]: true}
}

func (m *Matrix) changed() {
	if m.onChange != nil {
		m.onChange()
	}
}

var _ keypad.Matrix = (*Matrix)(nil)
