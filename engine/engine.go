package engine

import (
	"github.com/notnil/chess"

	"github.com/DrJosh9000/keychess/game"
	"github.com/DrJosh9000/keychess/internal/faults"
	"github.com/DrJosh9000/keychess/notation"
)

// Engine checks moves with notnil/chess and plays by a fixed-depth
// alpha-beta search. The zero value is ready to use.
type Engine struct{}

var _ game.Engine = Engine{}

// ParseMove parses coordinate or castling notation.
func (Engine) ParseMove(text string) (notation.Move, error) {
	return notation.Parse(text)
}

// Apply plays m in p. Pawns reaching the last rank become queens.
func (Engine) Apply(gp game.Position, m notation.Move) game.Result {
	pos, err := asPosition(gp)
	if err != nil {
		return game.Result{Kind: game.IllegalMove, Reason: err.Error()}
	}
	mv := resolve(pos, m)
	if mv == nil {
		return game.Result{Kind: game.IllegalMove, Reason: m.String() + " is not legal here"}
	}
	next := pos.Update(mv)
	r := game.Result{Kind: game.Continuing, Position: Position{pos: next}}
	switch next.Status() {
	case chess.Checkmate:
		r.Kind = game.Victory
		r.Winner = Position{pos: pos}.SideToMove()
	case chess.Stalemate:
		r.Kind = game.Stalemated
	}
	return r
}

// Terminal reports how the game ended if the side to move in p has no
// legal moves. Positions from elsewhere are never terminal.
func (Engine) Terminal(gp game.Position) (game.Outcome, bool) {
	pos, err := asPosition(gp)
	if err != nil {
		return game.NoOutcome, false
	}
	switch pos.Status() {
	case chess.Checkmate:
		return game.Win(Position{pos: pos}.SideToMove().Other()), true
	case chess.Stalemate:
		return game.Stalemate, true
	}
	return game.NoOutcome, false
}

// resolve finds the legal move in pos that m names, or nil.
func resolve(pos *chess.Position, m notation.Move) *chess.Move {
	for _, mv := range pos.ValidMoves() {
		switch m.Kind {
		case notation.KingsideCastle:
			if mv.HasTag(chess.KingSideCastle) {
				return mv
			}
		case notation.QueensideCastle:
			if mv.HasTag(chess.QueenSideCastle) {
				return mv
			}
		default:
			if !m.From.File.Valid() || !m.From.Rank.Valid() || !m.To.File.Valid() || !m.To.Rank.Valid() {
				return nil
			}
			if mv.S1() == square(m.From) && mv.S2() == square(m.To) && !underpromotion(mv) {
				return mv
			}
		}
	}
	return nil
}

func square(s notation.Square) chess.Square {
	return chess.NewSquare(chess.File(s.File), chess.Rank(s.Rank))
}

func underpromotion(mv *chess.Move) bool {
	p := mv.Promo()
	return p != chess.NoPieceType && p != chess.Queen
}

// toNotation renders mv the way the keypad would enter it.
func toNotation(mv *chess.Move) notation.Move {
	switch {
	case mv.HasTag(chess.KingSideCastle):
		return notation.Move{Kind: notation.KingsideCastle}
	case mv.HasTag(chess.QueenSideCastle):
		return notation.Move{Kind: notation.QueensideCastle}
	}
	return notation.Move{
		Kind: notation.Coordinates,
		From: notation.Square{File: notation.File(mv.S1().File()), Rank: notation.Rank(mv.S1().Rank())},
		To:   notation.Square{File: notation.File(mv.S2().File()), Rank: notation.Rank(mv.S2().Rank())},
	}
}

// Search looks depth plies ahead (at least one) and returns the best move for
// the side to move with the number of positions visited. With no legal moves
// the result is terminal.
func (Engine) Search(gp game.Position, depth int) (game.Search, error) {
	pos, err := asPosition(gp)
	if err != nil {
		return game.Search{}, faults.New(faults.ErrEngine, "search", err)
	}
	if depth < 1 {
		depth = 1
	}
	s := &searcher{}
	best, score := s.root(pos, depth)
	if best == nil {
		out := game.Stalemate
		if pos.Status() == chess.Checkmate {
			out = game.Win(Position{pos: pos}.SideToMove().Other())
		}
		return game.Search{Nodes: s.nodes, Terminal: true, Outcome: out}, nil
	}
	return game.Search{Move: toNotation(best), Nodes: s.nodes, Score: score}, nil
}
