// Package keypadtest provides a scripted keypad.Matrix for tests.
package keypadtest

import (
	"sync"

	"github.com/DrJosh9000/keychess/keypad"
)

// Matrix is an in-memory keypad. Keys are held down with Hold, or queued
// with Script so each entry stays down for a fixed number of scan cycles.
// A cycle starts each time line 0 is driven Low.
type Matrix struct {
	mu     sync.Mutex
	driven int
	held   map[keypad.Position]bool
	script []keypad.Position
	perKey int
	left   int
	cycles int
	reads  int

	// ReadErr and DriveErr, when set, are returned by every call.
	ReadErr  error
	DriveErr error

	// FailReadAt, when positive, limits ReadErr to that read alone,
	// counting from 1.
	FailReadAt int
}

// New returns a matrix with nothing pressed. Each scripted key is held for
// one scan cycle.
func New() *Matrix {
	return &Matrix{driven: -1, held: map[keypad.Position]bool{}, perKey: 1}
}

// Hold presses p until Release.
func (m *Matrix) Hold(p keypad.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[p] = true
}

// Release lifts p.
func (m *Matrix) Release(p keypad.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, p)
}

// Script queues presses, one after another.
func (m *Matrix) Script(ps ...keypad.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, ps...)
}

// HoldCycles sets how many scan cycles each scripted key stays down.
func (m *Matrix) HoldCycles(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perKey = n
}

// Cycles returns the number of scan cycles started so far.
func (m *Matrix) Cycles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cycles
}

// Reads returns the number of sense line samples taken so far.
func (m *Matrix) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Driven returns the drive line held low, or -1 if all are released.
func (m *Matrix) Driven() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.driven
}

// Pending returns the number of scripted keys not yet consumed.
func (m *Matrix) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}

func (m *Matrix) SetRowDrive(row int, level keypad.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DriveErr != nil {
		return m.DriveErr
	}
	if level == keypad.High {
		if m.driven == row {
			m.driven = -1
		}
		return nil
	}
	if row == 0 {
		m.startCycle()
	}
	m.driven = row
	return nil
}

func (m *Matrix) startCycle() {
	m.cycles++
	if m.left > 0 {
		m.left--
		if m.left == 0 {
			m.script = m.script[1:]
		}
	}
	if m.left == 0 && len(m.script) > 0 {
		m.left = m.perKey
	}
}

func (m *Matrix) ReadColumn(col int) (keypad.Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.ReadErr != nil && (m.FailReadAt <= 0 || m.FailReadAt == m.reads) {
		return keypad.High, m.ReadErr
	}
	if m.driven < 0 {
		return keypad.High, nil
	}
	p := keypad.Position{Row: m.driven, Col: col}
	if m.held[p] {
		return keypad.Low, nil
	}
	if len(m.script) > 0 && m.left > 0 && m.script[0] == p {
		return keypad.Low, nil
	}
	return keypad.High, nil
}
