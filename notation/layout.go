package notation

import (
	"fmt"
	"sort"

	"github.com/DrJosh9000/keychess/internal/faults"
	"github.com/DrJosh9000/keychess/keypad"
)

// Layout maps keypad positions to coordinates. Sixteen keys cannot name
// eight files and eight ranks at once, so the keypad is shared: a file is
// read from the Files keys, then a rank from the Ranks keys. The two tables
// use disjoint keys.
type Layout struct {
	Files map[keypad.Position]File
	Ranks map[keypad.Position]Rank
}

// DefaultLayout is the 4x4 keypad layout. The bottom two rows enter files,
// the top two ranks, each read right to left:
//
//	row 0:  8 7 6 5
//	row 1:  4 3 2 1
//	row 2:  h g f e
//	row 3:  d c b a
func DefaultLayout() Layout {
	l := Layout{
		Files: make(map[keypad.Position]File, 8),
		Ranks: make(map[keypad.Position]Rank, 8),
	}
	for i := 0; i < 4; i++ {
		col := 3 - i
		l.Files[keypad.Position{Row: 3, Col: col}] = File(i)
		l.Files[keypad.Position{Row: 2, Col: col}] = File(i + 4)
		l.Ranks[keypad.Position{Row: 1, Col: col}] = Rank(i)
		l.Ranks[keypad.Position{Row: 0, Col: col}] = Rank(i + 4)
	}
	return l
}

// DecodeFile returns the file for p, or false if p is not a file key.
func (l Layout) DecodeFile(p keypad.Position) (File, bool) {
	f, ok := l.Files[p]
	return f, ok
}

// DecodeRank returns the rank for p, or false if p is not a rank key.
func (l Layout) DecodeRank(p keypad.Position) (Rank, bool) {
	r, ok := l.Ranks[p]
	return r, ok
}

// FileKey returns the position that enters f.
func (l Layout) FileKey(f File) (keypad.Position, bool) {
	for p, v := range l.Files {
		if v == f {
			return p, true
		}
	}
	return keypad.Position{}, false
}

// RankKey returns the position that enters r.
func (l Layout) RankKey(r Rank) (keypad.Position, bool) {
	for p, v := range l.Ranks {
		if v == r {
			return p, true
		}
	}
	return keypad.Position{}, false
}

// Keys lists every key in either table, in row-major order.
func (l Layout) Keys() []keypad.Position {
	ps := make([]keypad.Position, 0, len(l.Files)+len(l.Ranks))
	for p := range l.Files {
		ps = append(ps, p)
	}
	for p := range l.Ranks {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Row != ps[j].Row {
			return ps[i].Row < ps[j].Row
		}
		return ps[i].Col < ps[j].Col
	})
	return ps
}

// Validate checks that each table names all eight values exactly once and
// that no key is in both tables.
func (l Layout) Validate() error {
	if len(l.Files) != 8 || len(l.Ranks) != 8 {
		return faults.New(faults.ErrInvalidLayout, "validate",
			fmt.Errorf("want 8 file and 8 rank keys, have %d and %d", len(l.Files), len(l.Ranks)))
	}
	var files, ranks [8]bool
	for p, f := range l.Files {
		if !f.Valid() || files[f] {
			return faults.New(faults.ErrInvalidLayout, "validate", fmt.Errorf("file key %v: bad or repeated file %d", p, f))
		}
		files[f] = true
		if _, dup := l.Ranks[p]; dup {
			return faults.New(faults.ErrInvalidLayout, "validate", fmt.Errorf("key %v enters both a file and a rank", p))
		}
	}
	for p, r := range l.Ranks {
		if !r.Valid() || ranks[r] {
			return faults.New(faults.ErrInvalidLayout, "validate", fmt.Errorf("rank key %v: bad or repeated rank %d", p, r))
		}
		ranks[r] = true
	}
	return nil
}
