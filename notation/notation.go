// Package notation turns keypad coordinates into chess moves and renders
// them as short coordinate notation ("e2e4", "O-O", "O-O-O").
package notation

import "github.com/DrJosh9000/keychess/internal/faults"

// MaxNotationLen bounds every string produced by Move.String.
const MaxNotationLen = 10

// File is a board file, 0 for a through 7 for h.
type File int

// Rank is a board rank, 0 for 1 through 7 for 8.
type Rank int

// Valid reports whether f is on the board.
func (f File) Valid() bool { return f >= 0 && f <= 7 }

// Valid reports whether r is on the board.
func (r Rank) Valid() bool { return r >= 0 && r <= 7 }

// String renders f as a letter; off-board values render as "u".
func (f File) String() string {
	if !f.Valid() {
		return "u"
	}
	return string(rune('a' + f))
}

// String renders r as a digit; off-board values render as "u".
func (r Rank) String() string {
	if !r.Valid() {
		return "u"
	}
	return string(rune('1' + r))
}

// Square is a board square.
type Square struct {
	File File
	Rank Rank
}

func (s Square) String() string { return s.File.String() + s.Rank.String() }

// MoveKind distinguishes ordinary moves from the castling shorthands.
type MoveKind uint8

const (
	Coordinates MoveKind = iota
	KingsideCastle
	QueensideCastle
)

func (k MoveKind) String() string {
	switch k {
	case Coordinates:
		return "coordinates"
	case KingsideCastle:
		return "kingside castle"
	case QueensideCastle:
		return "queenside castle"
	}
	return "unknown"
}

// Move is an immutable move token. From and To are only meaningful for
// Coordinates.
type Move struct {
	Kind     MoveKind
	From, To Square
}

// Build assembles four entered coordinates into a Move. The tuples
// (a,1,a,1) and (b,2,b,2), that is all zeros and all ones, are reserved:
// they mean kingside and queenside castling, so those two null moves can
// never be entered as coordinates.
func Build(fromFile File, fromRank Rank, toFile File, toRank Rank) Move {
	switch {
	case fromFile == 0 && fromRank == 0 && toFile == 0 && toRank == 0:
		return Move{Kind: KingsideCastle}
	case fromFile == 1 && fromRank == 1 && toFile == 1 && toRank == 1:
		return Move{Kind: QueensideCastle}
	}
	return Move{
		Kind: Coordinates,
		From: Square{File: fromFile, Rank: fromRank},
		To:   Square{File: toFile, Rank: toRank},
	}
}

// String renders the move: "O-O", "O-O-O" or four characters such as "c4e5".
func (m Move) String() string {
	switch m.Kind {
	case KingsideCastle:
		return "O-O"
	case QueensideCastle:
		return "O-O-O"
	}
	var b [4]byte
	b[0] = m.From.File.String()[0]
	b[1] = m.From.Rank.String()[0]
	b[2] = m.To.File.String()[0]
	b[3] = m.To.Rank.String()[0]
	return string(b[:])
}

// Parse is the inverse of Move.String. Castling accepts the letter O or the
// digit 0. Anything else must be exactly a file letter, a rank digit, a file
// letter and a rank digit.
func Parse(s string) (Move, error) {
	switch s {
	case "O-O", "0-0":
		return Move{Kind: KingsideCastle}, nil
	case "O-O-O", "0-0-0":
		return Move{Kind: QueensideCastle}, nil
	}
	if len(s) != 4 {
		return Move{}, faults.New(faults.ErrParseFailure, "parse "+quote(s), nil)
	}
	from, ok1 := parseSquare(s[0:2])
	to, ok2 := parseSquare(s[2:4])
	if !ok1 || !ok2 {
		return Move{}, faults.New(faults.ErrParseFailure, "parse "+quote(s), nil)
	}
	return Move{Kind: Coordinates, From: from, To: to}, nil
}

func parseSquare(s string) (Square, bool) {
	f, r := File(s[0]-'a'), Rank(s[1]-'1')
	if s[0] < 'a' || s[1] < '1' || !f.Valid() || !r.Valid() {
		return Square{}, false
	}
	return Square{File: f, Rank: r}, true
}

func quote(s string) string {
	if len(s) > MaxNotationLen {
		s = s[:MaxNotationLen] + "..."
	}
	return `"` + s + `"`
}
