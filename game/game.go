// Package game runs a keypad chess game: the human enters moves on the
// keypad, an engine answers, and a character display shows what happened.
//
// The game state is a Turn value. Loop.Step takes a Turn and returns the
// next one, so tests (and callers resuming a game) can start from any state.
package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/DrJosh9000/keychess/notation"
)

// Side is a chess colour.
type Side uint8

const (
	White Side = iota
	Black
)

// Other returns the opposing side.
func (s Side) Other() Side { return 1 - s }

func (s Side) String() string {
	if s == Black {
		return "Black"
	}
	return "White"
}

// ParseSide accepts "white", "black", "w" or "b" in either case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown side %q", s)
}

// Player is who makes the next move.
type Player uint8

const (
	Human Player = iota
	Computer
)

func (p Player) String() string {
	if p == Computer {
		return "computer"
	}
	return "human"
}

// StateKind is a TurnLoop state.
type StateKind uint8

const (
	AwaitingHumanMove StateKind = iota
	AwaitingEngineMove
	ApplyingMove
	GameOver
)

func (k StateKind) String() string {
	switch k {
	case AwaitingHumanMove:
		return "awaiting human move"
	case AwaitingEngineMove:
		return "awaiting engine move"
	case ApplyingMove:
		return "applying move"
	case GameOver:
		return "game over"
	}
	return "unknown"
}

// Outcome is how a game ended.
type Outcome uint8

const (
	NoOutcome Outcome = iota
	WhiteWins
	BlackWins
	Stalemate
)

// Win returns the outcome where s wins.
func Win(s Side) Outcome {
	if s == Black {
		return BlackWins
	}
	return WhiteWins
}

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "White wins."
	case BlackWins:
		return "Black wins."
	case Stalemate:
		return "Stalemated"
	}
	return ""
}

// Position is a board position owned by the engine. The loop passes it
// through untouched.
type Position interface {
	// SideToMove reports whose move it is in this position.
	SideToMove() Side
	// String renders the position, as FEN for the bundled engine.
	String() string
}

// ResultKind classifies the outcome of applying a move.
type ResultKind uint8

const (
	Continuing ResultKind = iota
	IllegalMove
	Victory
	Stalemated
)

// Result is what Engine.Apply returns.
type Result struct {
	Kind     ResultKind
	Position Position // the new position, unless Kind is IllegalMove
	Winner   Side     // for Victory
	Reason   string   // for IllegalMove
}

// Search is what Engine.Search returns. If Terminal is set the side to move
// has no legal replies: Move is unset and Outcome says how the game ended.
type Search struct {
	Move     notation.Move
	Nodes    int
	Score    int
	Terminal bool
	Outcome  Outcome
}

// Engine is the chess rules engine and opponent.
type Engine interface {
	ParseMove(text string) (notation.Move, error)
	Apply(p Position, m notation.Move) Result
	Search(p Position, depth int) (Search, error)
	// Terminal reports the outcome if the side to move in p has no legal
	// moves.
	Terminal(p Position) (Outcome, bool)
}

// Display is a character display addressed by cell position. Positions
// count 40 cells per line, so line 1 starts at 40.
type Display interface {
	Clear() error
	WriteString(s string) error
	SetCursor(pos uint8) error
}

// Input produces the human's next move. It may echo progress to d.
type Input interface {
	NextMove(ctx context.Context, d Display) (notation.Move, error)
}

// Indicator is a status light, lit while the engine thinks.
type Indicator interface {
	Set(on bool) error
}

// Counter shows the node count of the engine's last search.
type Counter interface {
	ShowCount(n int) error
}

// MoveRecord describes one applied move.
type MoveRecord struct {
	Ply      int
	Player   Player
	Side     Side
	Notation string
	Position string // after the move
	Nodes    int    // engine moves only
}

// Journal records a game as it is played.
type Journal interface {
	RecordMove(MoveRecord) error
	Finish(Outcome) error
}

// Turn is the complete state of a game between steps.
type Turn struct {
	State    StateKind
	Mover    Player
	Position Position
	Pending  notation.Move // the move being applied, in ApplyingMove
	Nodes    int           // searched to find Pending, for engine moves
	Outcome  Outcome       // set in GameOver
	Ply      int           // moves applied so far
}

// NewTurn starts a game from p with the human playing side human.
func NewTurn(p Position, human Side) Turn {
	t := Turn{State: AwaitingHumanMove, Mover: Human, Position: p}
	if p.SideToMove() != human {
		t.State, t.Mover = AwaitingEngineMove, Computer
	}
	return t
}
