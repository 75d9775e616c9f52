package game

import (
	"context"
	"strconv"
	"time"

	"github.com/DrJosh9000/keychess/keypad"
)

// ScanKeys shows "pd <row> <col>" for each key pressed, n times (forever if
// n <= 0). It is for checking keypad wiring.
func ScanKeys(ctx context.Context, s Scanner, d Display, n int) error {
	for i := 0; n <= 0 || i < n; i++ {
		p, err := s.BlockUntil(ctx, nil)
		if err != nil {
			return err
		}
		if err := clearDisplay(d); err != nil {
			return err
		}
		if err := write(d, "pd "+strconv.Itoa(p.Row)+" "+strconv.Itoa(p.Col)); err != nil {
			return err
		}
		if err := s.WaitRelease(ctx); err != nil {
			return err
		}
	}
	return nil
}

// EchoCoordinates reads two squares per cycle and shows them, then
// "Done cycle" with a flash of ind (which may be nil). It runs n cycles
// (forever if n <= 0).
func EchoCoordinates(ctx context.Context, in *KeypadInput, d Display, ind Indicator, n int) error {
	for i := 0; n <= 0 || i < n; i++ {
		if err := clearDisplay(d); err != nil {
			return err
		}
		for sq := 0; sq < 2; sq++ {
			if _, _, err := in.ReadSquare(ctx, d); err != nil {
				return err
			}
		}
		if err := writeLine(d, StatusLine, "Done cycle"); err != nil {
			return err
		}
		if ind != nil {
			if err := flash(ctx, ind, 500*time.Millisecond); err != nil {
				return err
			}
		}
	}
	return nil
}

func flash(ctx context.Context, ind Indicator, d time.Duration) error {
	if err := ind.Set(true); err != nil {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
	return ind.Set(false)
}

// Blink toggles ind every period until ctx is done, leaving it off. Boards
// run it after a game ends.
func Blink(ctx context.Context, ind Indicator, period time.Duration) error {
	t := time.NewTicker(period)
	defer t.Stop()
	on := false
	for {
		select {
		case <-t.C:
		case <-ctx.Done():
			if on {
				return ind.Set(false)
			}
			return nil
		}
		on = !on
		if err := ind.Set(on); err != nil {
			return err
		}
	}
}

var _ Scanner = (*keypad.Scanner)(nil)
