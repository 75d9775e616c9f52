package engine

import (
	"sort"

	"github.com/notnil/chess"
)

const (
	mateScore = 100000
	infinity  = mateScore + 1
)

var pieceValues = map[chess.PieceType]int{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
}

// Move ordering values for most valuable victim, least valuable aggressor.
var orderValues = map[chess.PieceType]int{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
	chess.King:   100,
}

type searcher struct {
	nodes int
}

func (s *searcher) root(pos *chess.Position, depth int) (*chess.Move, int) {
	s.nodes++
	moves := candidates(pos)
	var best *chess.Move
	alpha := -infinity
	for _, mv := range moves {
		score := -s.negamax(pos.Update(mv), depth-1, 1, -infinity, -alpha)
		if best == nil || score > alpha {
			best, alpha = mv, score
		}
	}
	return best, alpha
}

// negamax scores pos for the side to move.
func (s *searcher) negamax(pos *chess.Position, depth, ply, alpha, beta int) int {
	s.nodes++
	moves := candidates(pos)
	if len(moves) == 0 {
		if pos.Status() == chess.Checkmate {
			// Nearer mates score higher.
			return -mateScore + ply
		}
		return 0
	}
	if depth == 0 {
		return evaluate(pos)
	}
	for _, mv := range moves {
		score := -s.negamax(pos.Update(mv), depth-1, ply+1, -beta, -alpha)
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// candidates returns the legal moves worth searching, captures first.
// Promotions other than to a queen are left out.
func candidates(pos *chess.Position) []*chess.Move {
	board := pos.Board()
	valid := pos.ValidMoves()
	moves := make([]*chess.Move, 0, len(valid))
	for _, mv := range valid {
		if !underpromotion(mv) {
			moves = append(moves, mv)
		}
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return orderScore(board, moves[i]) > orderScore(board, moves[j])
	})
	return moves
}

func orderScore(board *chess.Board, mv *chess.Move) int {
	score := 0
	if mv.Promo() == chess.Queen {
		score += 90
	}
	if victim := board.Piece(mv.S2()); victim != chess.NoPiece {
		attacker := board.Piece(mv.S1())
		score += 100 + orderValues[victim.Type()]*10 - orderValues[attacker.Type()]
	} else if mv.HasTag(chess.EnPassant) {
		score += 100 + orderValues[chess.Pawn]*9
	}
	return score
}

// evaluate is a material count with a small bonus for advanced pawns and
// centralised minor pieces, from the point of view of the side to move.
func evaluate(pos *chess.Position) int {
	board := pos.Board()
	score := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := board.Piece(sq)
		if p == chess.NoPiece {
			continue
		}
		v := pieceValues[p.Type()]
		switch p.Type() {
		case chess.Pawn:
			advance := int(sq.Rank())
			if p.Color() == chess.Black {
				advance = 7 - int(sq.Rank())
			}
			v += 5 * (advance - 1)
		case chess.Knight, chess.Bishop:
			v += 10 - 3*centreDistance(sq)
		}
		if p.Color() == chess.White {
			score += v
		} else {
			score -= v
		}
	}
	if pos.Turn() == chess.Black {
		return -score
	}
	return score
}

// centreDistance is how many king steps sq is from the four centre squares.
func centreDistance(sq chess.Square) int {
	f, r := int(sq.File()), int(sq.Rank())
	return max(dist(f), dist(r))
}

func dist(i int) int {
	if i < 4 {
		return 3 - i
	}
	return i - 4
}
