package faults

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaultIsCode(t *testing.T) {
	cause := errors.New("pin GPIO5 halted")
	err := PeripheralFault("read column 2", cause)

	assert.ErrorIs(t, err, ErrPeripheral)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrDisplay)
	assert.Equal(t, "read column 2: peripheral_fault: pin GPIO5 halted", err.Error())
}

func TestFaultSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("turn 3: %w", DisplayFault("write", errors.New("bus stuck")))
	assert.ErrorIs(t, err, ErrDisplay)
	assert.Equal(t, ErrDisplay, Of(err))
}

func TestNilCausesStayNil(t *testing.T) {
	assert.NoError(t, DisplayFault("clear", nil))
	assert.NoError(t, PeripheralFault("drive", nil))
	assert.NoError(t, EngineFault("search", nil))
}

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, ""},
		{"bare code", ErrIllegalMove, ErrIllegalMove},
		{"wrapped code", fmt.Errorf("move e2e5: %w", ErrIllegalMove), ErrIllegalMove},
		{"fault outranks inner code", New(ErrEngine, "apply", ErrIllegalMove), ErrEngine},
		{"foreign", errors.New("boom"), Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(tt.err))
		})
	}
}

func TestRecoverable(t *testing.T) {
	assert.True(t, Recoverable(ErrDecodeMiss))
	assert.True(t, Recoverable(fmt.Errorf("x: %w", ErrParseFailure)))
	assert.True(t, Recoverable(ErrIllegalMove))
	assert.False(t, Recoverable(DisplayFault("write", errors.New("x"))))
	assert.False(t, Recoverable(ErrGameOver))
	assert.False(t, Recoverable(nil))
}
