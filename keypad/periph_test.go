package keypad

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// wiredPin is a sense pin that reads Low while its paired drive pin is Low,
// like a closed switch between them.
type wiredPin struct {
	*gpiotest.Pin
	closedTo []*gpiotest.Pin
}

func (w *wiredPin) Read() gpio.Level {
	for _, d := range w.closedTo {
		if d.Read() == gpio.Low {
			return gpio.Low
		}
	}
	return gpio.High
}

func TestPeriphMatrixConfiguresPins(t *testing.T) {
	d := []gpio.PinIO{&gpiotest.Pin{N: "D0"}, &gpiotest.Pin{N: "D1"}}
	s := []gpio.PinIO{&gpiotest.Pin{N: "S0"}}

	_, err := NewPeriphMatrix(d, s)
	require.NoError(t, err)
	assert.Equal(t, gpio.High, d[0].Read())
	assert.Equal(t, gpio.High, d[1].Read())
	assert.Equal(t, gpio.PullUp, s[0].Pull())
}

func TestPeriphMatrixScan(t *testing.T) {
	d0, d1 := &gpiotest.Pin{N: "D0"}, &gpiotest.Pin{N: "D1"}
	s0 := &wiredPin{Pin: &gpiotest.Pin{N: "S0"}}
	s1 := &wiredPin{Pin: &gpiotest.Pin{N: "S1"}, closedTo: []*gpiotest.Pin{d1}}

	m, err := NewPeriphMatrix([]gpio.PinIO{d0, d1}, []gpio.PinIO{s0, s1})
	require.NoError(t, err)
	sc, err := New(m, Config{Rows: 2, Cols: 2})
	require.NoError(t, err)

	p, err := sc.BlockUntilKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Position{Row: 1, Col: 1}, p)
	assert.Equal(t, gpio.High, d1.Read(), "line released after the cycle")
}

func TestPeriphMatrixRange(t *testing.T) {
	m := &PeriphMatrix{}
	assert.Error(t, m.SetRowDrive(0, Low))
	_, err := m.ReadColumn(4)
	assert.Error(t, err)
}
