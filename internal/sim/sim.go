// Package sim runs a keypad chess board in a terminal. The keyboard stands
// in for the 4x4 keypad, and the screen shows the LCD, the busy light and the
// node counter.
package sim

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/DrJosh9000/keychess/keypad"
	"github.com/DrJosh9000/keychess/notation"
)

// ErrQuit is returned by Run when the user quits.
var ErrQuit = errors.New("sim: quit")

// Screen geometry.
const (
	lcdCols    = 20
	lcdLines   = 2
	cellsPerLn = 40
	lcdX, lcdY = 1, 1
	ledY       = lcdY + lcdLines + 2
	padY       = ledY + 2
	helpY      = padY + 5
)

var (
	styleFrame   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLCD     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreenYellow)
	styleKey     = tcell.StyleDefault
	stylePressed = tcell.StyleDefault.Reverse(true)
	styleLEDOn   = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
)

// Sim is a simulated board drawn on a tcell screen.
type Sim struct {
	mu     sync.Mutex
	screen tcell.Screen
	layout notation.Layout

	// Matrix is the simulated key matrix, wired with drive lines on rows.
	Matrix *Matrix

	cells  [lcdLines * cellsPerLn]rune
	cursor int
	led    bool
	count  string
}

// New draws an idle board on screen. The screen must already be
// initialised.
func New(screen tcell.Screen, layout notation.Layout) *Sim {
	s := &Sim{
		screen: screen,
		layout: layout,
		Matrix: NewMatrix(4, 4),
	}
	s.Matrix.onChange = s.redraw
	s.blank()
	s.redraw()
	return s
}

func (s *Sim) blank() {
	for i := range s.cells {
		s.cells[i] = ' '
	}
	s.cursor = 0
}

// Clear blanks the LCD.
func (s *Sim) Clear() error {
	s.mu.Lock()
	s.blank()
	s.mu.Unlock()
	s.redraw()
	return nil
}

// WriteString writes to the LCD from the cursor.
func (s *Sim) WriteString(str string) error {
	s.mu.Lock()
	for _, r := range str {
		if s.cursor >= len(s.cells) {
			break
		}
		s.cells[s.cursor] = r
		s.cursor++
	}
	s.mu.Unlock()
	s.redraw()
	return nil
}

// SetCursor moves the LCD cursor; line 1 starts at 40.
func (s *Sim) SetCursor(pos uint8) error {
	if int(pos) >= len(s.cells) {
		return errors.New("sim: cursor position " + strconv.Itoa(int(pos)) + " out of range")
	}
	s.mu.Lock()
	s.cursor = int(pos)
	s.mu.Unlock()
	return nil
}

// Set lights or puts out the busy light.
func (s *Sim) Set(on bool) error {
	s.mu.Lock()
	s.led = on
	s.mu.Unlock()
	s.redraw()
	return nil
}

// ShowCount shows n on the counter.
func (s *Sim) ShowCount(n int) error {
	s.mu.Lock()
	s.count = strconv.Itoa(n)
	if n < 0 || len(s.count) > 4 {
		s.count = "----"
	}
	s.mu.Unlock()
	s.redraw()
	return nil
}

// Line returns what LCD line n shows.
func (s *Sim) Line(n int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.cells[n*cellsPerLn : n*cellsPerLn+lcdCols])
}

// HandleEvent applies a terminal event. Keys a-h and 1-8 press the keypad
// key that enters that coordinate; Esc or Ctrl-C quit.
func (s *Sim) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			if p, ok := s.keyFor(ev.Rune()); ok {
				s.Matrix.Press(p)
			}
		}
	case *tcell.EventResize:
		s.screen.Sync()
		s.redraw()
	}
	return false
}

func (s *Sim) keyFor(r rune) (keypad.Position, bool) {
	switch {
	case r >= 'a' && r <= 'h':
		return s.layout.FileKey(notation.File(r - 'a'))
	case r >= 'A' && r <= 'H':
		return s.layout.FileKey(notation.File(r - 'A'))
	case r >= '1' && r <= '8':
		return s.layout.RankKey(notation.Rank(r - '1'))
	}
	return keypad.Position{}, false
}

// Run handles terminal events until the user quits (returning ErrQuit) or
// ctx is done.
func (s *Sim) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return ctx.Err()
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return ctx.Err()
		}
		if s.HandleEvent(ev) {
			return ErrQuit
		}
	}
}

func (s *Sim) redraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	scr := s.screen

	// LCD with frame.
	edge := "+" + strings.Repeat("-", lcdCols) + "+"
	drawText(scr, lcdX-1, lcdY-1, edge, styleFrame)
	for ln := 0; ln < lcdLines; ln++ {
		scr.SetContent(lcdX-1, lcdY+ln, '|', nil, styleFrame)
		for c := 0; c < lcdCols; c++ {
			scr.SetContent(lcdX+c, lcdY+ln, s.cells[ln*cellsPerLn+c], nil, styleLCD)
		}
		scr.SetContent(lcdX+lcdCols, lcdY+ln, '|', nil, styleFrame)
	}
	drawText(scr, lcdX-1, lcdY+lcdLines, edge, styleFrame)

	// Busy light and counter.
	led, style := "o", styleFrame
	if s.led {
		led, style = "*", styleLEDOn
	}
	drawText(scr, lcdX, ledY, "busy ", styleKey)
	drawText(scr, lcdX+5, ledY, led, style)
	count := s.count
	for len(count) < 4 {
		count = " " + count
	}
	drawText(scr, lcdX+9, ledY, "count ["+count+"]", styleKey)

	// Keypad, labelled by layout.
	pressed := s.Matrix.latched()
	for r := 0; r < s.Matrix.rows; r++ {
		for c := 0; c < s.Matrix.cols; c++ {
			p := keypad.Position{Row: r, Col: c}
			label := " "
			if f, ok := s.layout.DecodeFile(p); ok {
				label = f.String()
			} else if rk, ok := s.layout.DecodeRank(p); ok {
				label = rk.String()
			}
			st := styleKey
			if pressed[p] {
				st = stylePressed
			}
			drawText(scr, lcdX+c*4, padY+r, "["+label+"]", st)
		}
	}
	drawText(scr, lcdX, helpY, "a-h, 1-8: keys   a1a1: O-O   b2b2: O-O-O   Esc: quit", styleFrame)
	scr.Show()
}

func drawText(scr tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		scr.SetContent(x, y, r, nil, style)
		x++
	}
}
