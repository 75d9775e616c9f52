// Package faults defines the error taxonomy shared by the keypad, notation
// and game packages. A Code is itself an error, so callers can test with
// errors.Is(err, faults.ErrIllegalMove) whether or not the error was wrapped
// in a Fault carrying more context.
package faults

import "errors"

// Code is a stable, comparable error identifier.
type Code string

func (c Code) Error() string { return string(c) }

const (
	// ErrDecodeMiss classifies a key position that is not in the active
	// lookup table. It is never returned: notation.Layout reports a miss as
	// a false result and the caller keeps scanning. It exists so Of and
	// Recoverable can name every recoverable condition.
	ErrDecodeMiss Code = "decode_miss"

	// ErrIllegalMove means the engine rejected a move for the current position.
	ErrIllegalMove Code = "illegal_move"

	// ErrParseFailure means move text could not be parsed.
	ErrParseFailure Code = "parse_failure"

	// ErrDisplay means the display collaborator failed.
	ErrDisplay Code = "display_fault"

	// ErrPeripheral means a GPIO (or other pin-level) collaborator failed.
	ErrPeripheral Code = "peripheral_fault"

	// ErrEngine means the chess engine failed or proposed an illegal move.
	ErrEngine Code = "engine_fault"

	// ErrGameOver is returned when stepping a finished game.
	ErrGameOver Code = "game_over"

	// ErrInvalidLayout means a keypad lookup table is malformed.
	ErrInvalidLayout Code = "invalid_layout"

	// ErrInvalidConfig means configuration values are unusable.
	ErrInvalidConfig Code = "invalid_config"
)

// Fault wraps an underlying error with a Code and the operation that failed.
type Fault struct {
	Code Code
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	s := string(f.Code)
	if f.Op != "" {
		s = f.Op + ": " + s
	}
	if f.Err != nil {
		s += ": " + f.Err.Error()
	}
	return s
}

func (f *Fault) Unwrap() error { return f.Err }

// Is reports whether target is the Fault's Code.
func (f *Fault) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == f.Code
}

// New returns a Fault for op with the given code and cause.
func New(c Code, op string, err error) error {
	return &Fault{Code: c, Op: op, Err: err}
}

// DisplayFault wraps a display collaborator error.
func DisplayFault(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Code: ErrDisplay, Op: op, Err: err}
}

// PeripheralFault wraps a GPIO collaborator error.
func PeripheralFault(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Code: ErrPeripheral, Op: op, Err: err}
}

// EngineFault wraps a chess engine error.
func EngineFault(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Code: ErrEngine, Op: op, Err: err}
}

// Unknown is reported by Of for errors outside the taxonomy.
const Unknown Code = "error"

// Of extracts the outermost Code from err. A nil error has the empty Code.
func Of(err error) Code {
	if err == nil {
		return ""
	}
	var f *Fault
	if errors.As(err, &f) {
		return f.Code
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Unknown
}

// Recoverable reports whether err is a condition the turn loop handles by
// re-prompting rather than by stopping.
func Recoverable(err error) bool {
	switch Of(err) {
	case ErrDecodeMiss, ErrIllegalMove, ErrParseFailure:
		return true
	}
	return false
}
