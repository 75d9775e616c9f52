// Package journal records games in a SQLite database so they can be listed
// and replayed later.
package journal

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/DrJosh9000/keychess/game"
)

//go:embed schema.sql
var schemaSQL string

// ErrGameNotFound is returned for an unknown game ID.
var ErrGameNotFound = errors.New("journal: game not found")

// Store is a journal database.
type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the journal at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Game is one game being recorded. It implements game.Journal.
type Game struct {
	s  *Store
	ID string
}

var _ game.Journal = (*Game)(nil)

// Begin starts recording a game from the position start (as FEN).
func (s *Store) Begin(start string, human game.Side, depth int) (*Game, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("game id: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		`INSERT INTO games (game_id, started_at, start_fen, human, depth) VALUES (?, ?, ?, ?, ?)`,
		id.String(), s.now().UTC().Format(time.RFC3339Nano), start, human.String(), depth,
	)
	if err != nil {
		return nil, fmt.Errorf("begin game: %w", err)
	}
	return &Game{s: s, ID: id.String()}, nil
}

// RecordMove appends a move to the game.
func (g *Game) RecordMove(r game.MoveRecord) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	_, err := g.s.db.Exec(
		`INSERT INTO moves (game_id, ply, player, side, notation, position, nodes) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, r.Ply, r.Player.String(), r.Side.String(), r.Notation, r.Position, r.Nodes,
	)
	if err != nil {
		return fmt.Errorf("record ply %d: %w", r.Ply, err)
	}
	return nil
}

// Finish records how the game ended.
func (g *Game) Finish(o game.Outcome) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	res, err := g.s.db.Exec(
		`UPDATE games SET outcome = ?, finished_at = ? WHERE game_id = ?`,
		o.String(), g.s.now().UTC().Format(time.RFC3339Nano), g.ID,
	)
	if err != nil {
		return fmt.Errorf("finish game: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrGameNotFound
	}
	return nil
}

// Summary describes a recorded game.
type Summary struct {
	ID       string
	Started  time.Time
	Start    string // FEN
	Human    game.Side
	Depth    int
	Moves    int
	Outcome  string // empty while unfinished
	Finished time.Time
}

// List returns up to limit games, newest first. A limit of zero or less
// returns them all.
func (s *Store) List(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`
		SELECT g.game_id, g.started_at, g.start_fen, g.human, g.depth, g.outcome, g.finished_at,
			(SELECT COUNT(*) FROM moves m WHERE m.game_id = g.game_id)
		FROM games g
		ORDER BY g.started_at DESC, g.game_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum               Summary
			started, finished string
			human             string
		)
		if err := rows.Scan(&sum.ID, &started, &sum.Start, &human, &sum.Depth, &sum.Outcome, &finished, &sum.Moves); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		sum.Human, _ = game.ParseSide(human)
		sum.Started, _ = time.Parse(time.RFC3339Nano, started)
		if finished != "" {
			sum.Finished, _ = time.Parse(time.RFC3339Nano, finished)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Moves returns the moves of game id in order.
func (s *Store) Moves(id string) ([]game.MoveRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM games WHERE game_id = ?`, id).Scan(&n); err != nil {
		return nil, fmt.Errorf("find game: %w", err)
	}
	if n == 0 {
		return nil, ErrGameNotFound
	}
	rows, err := s.db.Query(
		`SELECT ply, player, side, notation, position, nodes FROM moves WHERE game_id = ? ORDER BY ply`, id)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	var out []game.MoveRecord
	for rows.Next() {
		var (
			r            game.MoveRecord
			player, side string
		)
		if err := rows.Scan(&r.Ply, &player, &side, &r.Notation, &r.Position, &r.Nodes); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		if player == game.Computer.String() {
			r.Player = game.Computer
		}
		r.Side, _ = game.ParseSide(side)
		out = append(out, r)
	}
	return out, rows.Err()
}
