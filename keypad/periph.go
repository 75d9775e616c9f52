//go:build !tinygo

package keypad

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// PeriphMatrix implements Matrix on periph.io pins. Drive pins are push-pull
// outputs; sense pins are inputs with the internal pull-up enabled.
type PeriphMatrix struct {
	Drive []gpio.PinIO
	Sense []gpio.PinIO
}

// NewPeriphMatrix configures the pins and returns the matrix.
func NewPeriphMatrix(drive, sense []gpio.PinIO) (*PeriphMatrix, error) {
	for i, p := range drive {
		if err := p.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("drive pin %d (%s): %w", i, p, err)
		}
	}
	for i, p := range sense {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("sense pin %d (%s): %w", i, p, err)
		}
	}
	return &PeriphMatrix{Drive: drive, Sense: sense}, nil
}

// PeriphMatrixByName looks the pins up in the periph registry. host.Init
// must have been called.
func PeriphMatrixByName(drive, sense []string) (*PeriphMatrix, error) {
	dp, err := pinsByName(drive)
	if err != nil {
		return nil, err
	}
	sp, err := pinsByName(sense)
	if err != nil {
		return nil, err
	}
	return NewPeriphMatrix(dp, sp)
}

func pinsByName(names []string) ([]gpio.PinIO, error) {
	pins := make([]gpio.PinIO, len(names))
	for i, n := range names {
		p := gpioreg.ByName(n)
		if p == nil {
			return nil, fmt.Errorf("no such pin %q", n)
		}
		pins[i] = p
	}
	return pins, nil
}

// SetRowDrive drives one drive pin.
func (m *PeriphMatrix) SetRowDrive(row int, level Level) error {
	if row < 0 || row >= len(m.Drive) {
		return fmt.Errorf("drive line %d out of range", row)
	}
	return m.Drive[row].Out(gpio.Level(level))
}

// ReadColumn samples one sense pin.
func (m *PeriphMatrix) ReadColumn(col int) (Level, error) {
	if col < 0 || col >= len(m.Sense) {
		return High, fmt.Errorf("sense line %d out of range", col)
	}
	return Level(m.Sense[col].Read()), nil
}
