// Package gametest provides in-memory collaborators for exercising
// game.Loop without hardware or a real engine.
package gametest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/DrJosh9000/keychess/game"
	"github.com/DrJosh9000/keychess/notation"
)

const cellsPerLine = 40

// Display is a two-line character display kept in memory.
type Display struct {
	mu     sync.Mutex
	cells  [2 * cellsPerLine]byte
	cursor int
	clears int
	writes []string

	// Err, when set, fails every call.
	Err error
}

// NewDisplay returns a blank display.
func NewDisplay() *Display {
	d := &Display{}
	d.blank()
	return d
}

func (d *Display) blank() {
	for i := range d.cells {
		d.cells[i] = ' '
	}
	d.cursor = 0
}

func (d *Display) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.blank()
	d.clears++
	return nil
}

func (d *Display) WriteString(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	for i := 0; i < len(s) && d.cursor < len(d.cells); i++ {
		d.cells[d.cursor] = s[i]
		d.cursor++
	}
	d.writes = append(d.writes, s)
	return nil
}

func (d *Display) SetCursor(pos uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	if int(pos) >= len(d.cells) {
		return errors.New("cursor off the display")
	}
	d.cursor = int(pos)
	return nil
}

// Line returns line n (0 or 1) without trailing spaces.
func (d *Display) Line(n int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.TrimRight(string(d.cells[n*cellsPerLine:(n+1)*cellsPerLine]), " ")
}

// Clears returns how many times Clear succeeded.
func (d *Display) Clears() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clears
}

// Writes returns every non-blank string written, in order.
func (d *Display) Writes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var ws []string
	for _, w := range d.writes {
		if strings.TrimSpace(w) != "" {
			ws = append(ws, w)
		}
	}
	return ws
}

// Position is a stand-in board: a label and the side to move.
type Position struct {
	Label  string
	ToMove game.Side
}

func (p Position) SideToMove() game.Side { return p.ToMove }
func (p Position) String() string        { return p.Label }

// Engine applies moves from a table and replays queued search results.
type Engine struct {
	// Legal lists the moves Apply accepts, by notation. Accepted moves
	// continue the game unless Results says otherwise.
	Legal map[string]bool
	// Results overrides Apply's result for a notation.
	Results map[string]game.Result
	// Searches are returned by successive Search calls.
	Searches  []game.Search
	SearchErr error
	// Over marks positions, by label, where the side to move has no moves.
	Over map[string]game.Outcome

	Applied     []notation.Move
	SearchCalls int
	Depths      []int
}

func (e *Engine) ParseMove(text string) (notation.Move, error) {
	return notation.Parse(text)
}

func (e *Engine) Apply(p game.Position, m notation.Move) game.Result {
	e.Applied = append(e.Applied, m)
	if r, ok := e.Results[m.String()]; ok {
		return r
	}
	if !e.Legal[m.String()] {
		return game.Result{Kind: game.IllegalMove, Reason: "not in table"}
	}
	next := Position{Label: strings.TrimSpace(p.String() + " " + m.String()), ToMove: p.SideToMove().Other()}
	return game.Result{Kind: game.Continuing, Position: next}
}

func (e *Engine) Search(p game.Position, depth int) (game.Search, error) {
	e.SearchCalls++
	e.Depths = append(e.Depths, depth)
	if e.SearchErr != nil {
		return game.Search{}, e.SearchErr
	}
	if len(e.Searches) == 0 {
		return game.Search{}, errors.New("gametest: no search queued")
	}
	s := e.Searches[0]
	e.Searches = e.Searches[1:]
	return s, nil
}

func (e *Engine) Terminal(p game.Position) (game.Outcome, bool) {
	o, ok := e.Over[p.String()]
	return o, ok
}

// Input returns queued moves.
type Input struct {
	Moves []notation.Move
	Err   error
}

func (in *Input) NextMove(_ context.Context, d game.Display) (notation.Move, error) {
	if len(in.Moves) == 0 {
		if in.Err != nil {
			return notation.Move{}, in.Err
		}
		return notation.Move{}, errors.New("gametest: no move queued")
	}
	m := in.Moves[0]
	in.Moves = in.Moves[1:]
	return m, nil
}

// Indicator records every level set.
type Indicator struct {
	Levels []bool
	Err    error
}

func (i *Indicator) Set(on bool) error {
	if i.Err != nil {
		return i.Err
	}
	i.Levels = append(i.Levels, on)
	return nil
}

// Journal keeps records in memory.
type Journal struct {
	Moves   []game.MoveRecord
	Outcome game.Outcome
	Err     error
}

func (j *Journal) RecordMove(r game.MoveRecord) error {
	if j.Err != nil {
		return j.Err
	}
	j.Moves = append(j.Moves, r)
	return nil
}

func (j *Journal) Finish(o game.Outcome) error {
	if j.Err != nil {
		return j.Err
	}
	j.Outcome = o
	return nil
}
