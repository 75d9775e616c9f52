// Package engine adapts github.com/notnil/chess to the game package: it
// checks and applies moves entered on the keypad, and searches for the
// computer's reply.
package engine

import (
	"fmt"

	"github.com/notnil/chess"

	"github.com/DrJosh9000/keychess/game"
)

// Position is an immutable board position.
type Position struct {
	pos *chess.Position
}

// Start returns the standard starting position.
func Start() Position {
	return Position{pos: chess.NewGame().Position()}
}

// FromFEN parses a position in Forsyth-Edwards Notation.
func FromFEN(fen string) (Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return Position{}, fmt.Errorf("parse FEN %q: %w", fen, err)
	}
	return Position{pos: chess.NewGame(opt).Position()}, nil
}

// SideToMove reports whose move it is.
func (p Position) SideToMove() game.Side {
	if p.pos.Turn() == chess.Black {
		return game.Black
	}
	return game.White
}

// String returns the position as FEN.
func (p Position) String() string { return p.pos.String() }

// Board renders the board as text, white at the bottom.
func (p Position) Board() string { return p.pos.Board().Draw() }

func asPosition(gp game.Position) (*chess.Position, error) {
	switch p := gp.(type) {
	case Position:
		if p.pos != nil {
			return p.pos, nil
		}
	case *Position:
		if p != nil && p.pos != nil {
			return p.pos, nil
		}
	}
	return nil, fmt.Errorf("position %T was not made by this engine", gp)
}
