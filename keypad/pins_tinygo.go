//go:build tinygo

package keypad

import (
	"errors"
	"machine"
)

var errLine = errors.New("keypad: line out of range")

// PinMatrix implements Matrix on TinyGo machine pins.
type PinMatrix struct {
	Drive []machine.Pin
	Sense []machine.Pin
}

// NewPinMatrix configures drive pins as outputs (released High) and sense
// pins as pulled-up inputs.
func NewPinMatrix(drive, sense []machine.Pin) *PinMatrix {
	for _, p := range drive {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.High()
	}
	for _, p := range sense {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	return &PinMatrix{Drive: drive, Sense: sense}
}

func (m *PinMatrix) SetRowDrive(row int, level Level) error {
	if row < 0 || row >= len(m.Drive) {
		return errLine
	}
	m.Drive[row].Set(bool(level))
	return nil
}

func (m *PinMatrix) ReadColumn(col int) (Level, error) {
	if col < 0 || col >= len(m.Sense) {
		return High, errLine
	}
	return Level(m.Sense[col].Get()), nil
}
