package game

import (
	"context"

	"github.com/DrJosh9000/keychess/keypad"
	"github.com/DrJosh9000/keychess/notation"
)

// Scanner is the part of *keypad.Scanner that KeypadInput needs.
type Scanner interface {
	BlockUntil(ctx context.Context, accept func(keypad.Position) bool) (keypad.Position, error)
	WaitRelease(ctx context.Context) error
}

// KeypadInput reads moves from a matrix keypad: a file, a rank, a file and
// a rank, each from its own half of the keypad. Keys outside the half being
// read are ignored.
type KeypadInput struct {
	Scanner Scanner
	Layout  notation.Layout

	// AwaitRelease waits for all keys to be let go after each coordinate.
	// Without it a key still held is read again by the next coordinate that
	// uses it.
	AwaitRelease bool
}

// ReadFile blocks until a file key is pressed.
func (in *KeypadInput) ReadFile(ctx context.Context) (notation.File, error) {
	var f notation.File
	_, err := in.Scanner.BlockUntil(ctx, func(p keypad.Position) bool {
		v, ok := in.Layout.DecodeFile(p)
		f = v
		return ok
	})
	if err != nil {
		return 0, err
	}
	return f, in.release(ctx)
}

// ReadRank blocks until a rank key is pressed.
func (in *KeypadInput) ReadRank(ctx context.Context) (notation.Rank, error) {
	var r notation.Rank
	_, err := in.Scanner.BlockUntil(ctx, func(p keypad.Position) bool {
		v, ok := in.Layout.DecodeRank(p)
		r = v
		return ok
	})
	if err != nil {
		return 0, err
	}
	return r, in.release(ctx)
}

func (in *KeypadInput) release(ctx context.Context) error {
	if !in.AwaitRelease {
		return nil
	}
	return in.Scanner.WaitRelease(ctx)
}

// ReadSquare reads a file then a rank, echoing each to d as it arrives.
func (in *KeypadInput) ReadSquare(ctx context.Context, d Display) (notation.File, notation.Rank, error) {
	f, err := in.ReadFile(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := write(d, f.String()); err != nil {
		return 0, 0, err
	}
	r, err := in.ReadRank(ctx)
	if err != nil {
		return 0, 0, err
	}
	return f, r, write(d, r.String())
}

// NextMove reads two squares after a "Player: " prompt on the move line.
// The castling shorthands are spelled out once recognised.
func (in *KeypadInput) NextMove(ctx context.Context, d Display) (notation.Move, error) {
	if err := writeLine(d, MoveLine, "Player: "); err != nil {
		return notation.Move{}, err
	}
	ff, fr, err := in.ReadSquare(ctx, d)
	if err != nil {
		return notation.Move{}, err
	}
	tf, tr, err := in.ReadSquare(ctx, d)
	if err != nil {
		return notation.Move{}, err
	}
	m := notation.Build(ff, fr, tf, tr)
	if m.Kind != notation.Coordinates {
		if err := writeLine(d, MoveLine, "Player: "+m.String()); err != nil {
			return notation.Move{}, err
		}
	}
	return m, nil
}
