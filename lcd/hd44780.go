package lcd

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// ErrBusyTimeout is returned when the busy flag stays set for too long.
var ErrBusyTimeout = errors.New("lcd: busy flag did not clear")

// Columns is the DD RAM width of each line. Cursor positions given to
// SetCursor count this many cells per line, so line 1 starts at 40.
const Columns = 40

// HD44780 implements a driver for HD44780-compatible character modules
// (including the QP-5515/QP-5516) wired straight to GPIO.
//
// Data holds either 8 pins (DB0-DB7) or 4 pins (DB4-DB7, for 4-bit mode).
// RW is optional: if nil, RW must be tied low and the driver waits a fixed
// time after each instruction instead of polling the busy flag. The contrast
// adjust should be connected to the centre of a 10k trimpot between 0 and
// 5v.
type HD44780 struct {
	RS, RW, E gpio.PinIO
	Data      []gpio.PinIO

	// OneLine selects the 1-line display mode.
	OneLine bool
}

func (h *HD44780) eightBit() bool { return len(h.Data) == 8 }

// Init runs the initialisation-by-instruction sequence from the data sheet,
// then clears the display and turns it on with no cursor.
func (h *HD44780) Init() error {
	if len(h.Data) != 4 && len(h.Data) != 8 {
		return fmt.Errorf("lcd: need 4 or 8 data pins, have %d", len(h.Data))
	}
	if h.RS == nil || h.E == nil {
		return errors.New("lcd: RS and E are required")
	}
	if err := h.E.Out(gpio.Low); err != nil {
		return err
	}
	if err := h.RS.Out(gpio.Low); err != nil {
		return err
	}
	if h.RW != nil {
		if err := h.RW.Out(gpio.Low); err != nil {
			return err
		}
	}
	time.Sleep(15 * time.Millisecond) // after Vcc rises to 4.5V

	// Function set (8-bit) three times, as a nibble in either mode.
	for _, wait := range []time.Duration{4100 * time.Microsecond, 100 * time.Microsecond, 100 * time.Microsecond} {
		if err := h.pulse(0b0011 << h.shift()); err != nil {
			return err
		}
		time.Sleep(wait)
	}
	if !h.eightBit() {
		if err := h.pulse(0b0010); err != nil {
			return err
		}
		time.Sleep(100 * time.Microsecond)
	}

	steps := []func() error{
		func() error { return h.SetFunction(h.eightBit(), !h.OneLine, false) },
		func() error { return h.SetDisplayMode(false, false, false) },
		h.Clear,
		func() error { return h.SetEntryMode(true, false) },
		func() error { return h.SetDisplayMode(true, false, false) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (h *HD44780) shift() int {
	if h.eightBit() {
		return 4
	}
	return 0
}

// WriteString writes s from the cursor. Runes outside the character ROM's
// single-byte range are shown as '?'.
func (h *HD44780) WriteString(s string) error {
	for _, r := range s {
		b := uint8('?')
		if r < 0x100 {
			b = uint8(r)
		}
		if err := h.WriteData(b); err != nil {
			return err
		}
	}
	return nil
}

// SetCursor moves the cursor to cell pos, counting Columns cells per line.
func (h *HD44780) SetCursor(pos uint8) error {
	if pos >= 2*Columns {
		return fmt.Errorf("lcd: cursor position %d out of range", pos)
	}
	return h.SetDDAddress((pos/Columns)*0x40 + pos%Columns)
}

// ReadBFAC reads the busy flag and address counter.
func (h *HD44780) ReadBFAC() (uint8, error) {
	if err := h.RS.Out(gpio.Low); err != nil {
		return 0, err
	}
	return h.rawRead()
}

// BusyWait waits until the busy flag is cleared. Without an RW pin it waits
// for the longest instruction time.
func (h *HD44780) BusyWait() error {
	if h.RW == nil {
		time.Sleep(1640 * time.Microsecond)
		return nil
	}
	// check it now
	bfac, err := h.ReadBFAC()
	if err != nil || bfac&0b10000000 == 0 {
		return err
	}
	// ok then, check every 40µs
	t := time.NewTicker(40 * time.Microsecond)
	defer t.Stop()
	deadline := time.Now().Add(10 * time.Millisecond)
	for time.Now().Before(deadline) {
		<-t.C
		bfac, err := h.ReadBFAC()
		if err != nil || bfac&0b10000000 == 0 {
			return err
		}
	}
	return ErrBusyTimeout
}

// ReadData reads a value from CG RAM or DD RAM.
func (h *HD44780) ReadData() (uint8, error) {
	if err := h.wait(); err != nil {
		return 0, err
	}
	if err := h.RS.Out(gpio.High); err != nil {
		return 0, err
	}
	return h.rawRead()
}

// RawFunction performs a function or sets an address for the next write.
func (h *HD44780) RawFunction(a uint8) error {
	if err := h.wait(); err != nil {
		return err
	}
	if err := h.RS.Out(gpio.Low); err != nil {
		return err
	}
	if err := h.rawWrite(a); err != nil {
		return err
	}
	h.settle(a <= 0b11)
	return nil
}

// Clear clears the display and returns the cursor to the home position.
func (h *HD44780) Clear() error {
	return h.RawFunction(0b00000001)
}

// ReturnHome returns the cursor to the home position and resets the display
// shift.
func (h *HD44780) ReturnHome() error {
	return h.RawFunction(0b00000010)
}

// SetEntryMode sets the data entry direction and whether to also shift.
func (h *HD44780) SetEntryMode(increment, shift bool) error {
	a := uint8(0b00000100)
	if increment {
		a += 0b00000010
	}
	if shift {
		a += 0b00000001
	}
	return h.RawFunction(a)
}

// SetDisplayMode turns on/off the whole display, cursor, or cursor-blinking.
func (h *HD44780) SetDisplayMode(display, cursor, blink bool) error {
	a := uint8(0b00001000)
	if display {
		a += 0b00000100
	}
	if cursor {
		a += 0b00000010
	}
	if blink {
		a += 0b00000001
	}
	return h.RawFunction(a)
}

// SetDisplayShiftOrCursorMove sets display shift or cursor move, and direction.
func (h *HD44780) SetDisplayShiftOrCursorMove(shift, right bool) error {
	a := uint8(0b00010000)
	if shift {
		a += 0b00001000
	}
	if right {
		a += 0b00000100
	}
	return h.RawFunction(a)
}

// SetFunction sets the interface data length, number of display lines, and
// character font.
// eightbit = false means 4-bit operation.
// twolines = false means use 1 display line.
// largefont = false means use 5x7 font instead of 5x10 font.
func (h *HD44780) SetFunction(eightbit, twolines, largefont bool) error {
	a := uint8(0b00100000)
	if eightbit {
		a += 0b00010000
	}
	if twolines {
		a += 0b00001000
	}
	if largefont {
		a += 0b00000100
	}
	return h.RawFunction(a)
}

// SetCGAddress sets the CG RAM address (0 <= a < 64).
func (h *HD44780) SetCGAddress(a uint8) error {
	return h.RawFunction(0b01000000 | a&0b00111111)
}

// SetDDAddress sets the DD RAM address (0 <= a < 128).
func (h *HD44780) SetDDAddress(a uint8) error {
	return h.RawFunction(0b10000000 | a&0b01111111)
}

// WriteData writes a value to CG RAM or DD RAM.
func (h *HD44780) WriteData(b uint8) error {
	if err := h.wait(); err != nil {
		return err
	}
	if err := h.RS.Out(gpio.High); err != nil {
		return err
	}
	if err := h.rawWrite(b); err != nil {
		return err
	}
	h.settle(false)
	return nil
}

// wait polls the busy flag before an access, when there is an RW pin.
func (h *HD44780) wait() error {
	if h.RW == nil {
		return nil
	}
	return h.BusyWait()
}

// settle waits out an instruction when the busy flag can't be read.
func (h *HD44780) settle(slow bool) {
	switch {
	case h.RW != nil:
	case slow:
		time.Sleep(1640 * time.Microsecond) // clear and home
	default:
		time.Sleep(40 * time.Microsecond)
	}
}

func (h *HD44780) rawRead() (uint8, error) {
	if h.RW == nil {
		return 0, errors.New("lcd: no RW pin to read with")
	}
	// Ensure the data pins are inputs
	for _, p := range h.Data {
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return 0, err
		}
	}
	if err := h.RW.Out(gpio.High); err != nil {
		return 0, err
	}
	time.Sleep(250 * time.Nanosecond) // tAS > 100ns

	if h.eightBit() {
		return h.strobeRead()
	}
	hi, err := h.strobeRead()
	if err != nil {
		return 0, err
	}
	lo, err := h.strobeRead()
	return hi<<4 | lo, err
}

// strobeRead samples the data pins while E is high.
func (h *HD44780) strobeRead() (uint8, error) {
	if err := h.E.Out(gpio.High); err != nil {
		return 0, err
	}
	time.Sleep(250 * time.Nanosecond) // tDDR < 190ns

	var b uint8
	for i, p := range h.Data {
		if p.Read() {
			b |= 1 << i
		}
	}

	if err := h.E.Out(gpio.Low); err != nil {
		return 0, err
	}
	time.Sleep(500 * time.Nanosecond) // (tCYCE > 1000ns, PWEH > 450ns)
	return b, nil
}

func (h *HD44780) rawWrite(b uint8) error {
	if h.RW != nil {
		if err := h.RW.Out(gpio.Low); err != nil {
			return err
		}
	}
	time.Sleep(250 * time.Nanosecond) // tAS > 100ns
	if h.eightBit() {
		return h.pulse(b)
	}
	if err := h.pulse(b >> 4); err != nil {
		return err
	}
	return h.pulse(b & 0x0f)
}

// pulse puts v on the data pins and strobes E; the module latches on the
// falling edge.
func (h *HD44780) pulse(v uint8) error {
	for i, p := range h.Data {
		if err := p.Out(v&(1<<i) != 0); err != nil {
			return err
		}
	}
	if err := h.E.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(250 * time.Nanosecond) // tDSW > 100ns
	if err := h.E.Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(500 * time.Nanosecond) // (tCYCE > 1000ns, PWEH > 450ns)
	return nil
}
