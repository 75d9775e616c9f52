package game

import (
	"io"
	"strconv"
	"strings"

	"github.com/DrJosh9000/keychess/internal/faults"
)

// Cell positions of the two status lines, and how much of each is cleared
// before writing.
const (
	MoveLine   uint8 = 0
	StatusLine uint8 = 40
	LineWidth        = 20
)

var blankLine = strings.Repeat(" ", LineWidth)

// writeLine blanks the line at pos and writes text from its start.
func writeLine(d Display, pos uint8, text string) error {
	if err := d.SetCursor(pos); err != nil {
		return faults.DisplayFault("set cursor "+strconv.Itoa(int(pos)), err)
	}
	if err := d.WriteString(blankLine); err != nil {
		return faults.DisplayFault("blank line", err)
	}
	if err := d.SetCursor(pos); err != nil {
		return faults.DisplayFault("set cursor "+strconv.Itoa(int(pos)), err)
	}
	if err := d.WriteString(text); err != nil {
		return faults.DisplayFault("write "+strconv.Quote(text), err)
	}
	return nil
}

func write(d Display, text string) error {
	return faults.DisplayFault("write "+strconv.Quote(text), d.WriteString(text))
}

func clearDisplay(d Display) error {
	return faults.DisplayFault("clear", d.Clear())
}

// Mirror is a Display that also copies everything written to W, one line
// per cursor move, for a serial console. The display is updated even when
// the copy to W fails; that failure is returned as a peripheral fault.
type Mirror struct {
	Display
	W io.Writer

	pending bool
}

func (m *Mirror) Clear() error {
	werr := m.newline()
	if err := m.Display.Clear(); err != nil {
		return err
	}
	return werr
}

func (m *Mirror) WriteString(s string) error {
	if err := m.Display.WriteString(s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	m.pending = true
	_, err := io.WriteString(m.W, s)
	return faults.PeripheralFault("mirror", err)
}

func (m *Mirror) SetCursor(pos uint8) error {
	werr := m.newline()
	if err := m.Display.SetCursor(pos); err != nil {
		return err
	}
	return werr
}

func (m *Mirror) newline() error {
	if !m.pending {
		return nil
	}
	m.pending = false
	_, err := io.WriteString(m.W, "\r\n")
	return faults.PeripheralFault("mirror", err)
}
