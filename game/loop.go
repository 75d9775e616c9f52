package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/DrJosh9000/keychess/internal/faults"
)

// DefaultDepth is the engine search depth when Loop.Depth is zero.
const DefaultDepth = 2

// Loop alternates between the human (through Input) and the Engine.
// Engine, Display and Input are required; the rest may be nil.
type Loop struct {
	Engine  Engine
	Display Display
	Input   Input

	Depth     int
	Indicator Indicator
	Counter   Counter
	Journal   Journal
	Logger    *slog.Logger
}

func (l *Loop) log() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.Logger
}

func (l *Loop) depth() int {
	if l.Depth <= 0 {
		return DefaultDepth
	}
	return l.Depth
}

// Run steps t until the game is over. It stops early on a fault or when ctx
// is done, returning the last good Turn so the caller may resume.
func (l *Loop) Run(ctx context.Context, t Turn) (Turn, error) {
	if t.State == AwaitingHumanMove {
		if err := writeLine(l.Display, StatusLine, "Player's turn!"); err != nil {
			return t, err
		}
	}
	for t.State != GameOver {
		if err := ctx.Err(); err != nil {
			return t, err
		}
		next, err := l.Step(ctx, t)
		if err != nil {
			return t, err
		}
		t = next
	}
	return t, nil
}

// Step makes one transition from t. Recoverable problems (bad notation, an
// illegal human move) are shown on the display and produce a Turn asking the
// same player again. Faults are returned as errors with t unchanged.
func (l *Loop) Step(ctx context.Context, t Turn) (Turn, error) {
	var (
		next Turn
		err  error
	)
	switch t.State {
	case AwaitingHumanMove:
		next, err = l.humanMove(ctx, t)
	case AwaitingEngineMove:
		next, err = l.engineMove(t)
	case ApplyingMove:
		next, err = l.apply(t)
	case GameOver:
		return t, faults.ErrGameOver
	default:
		return t, fmt.Errorf("turn in unknown state %d", t.State)
	}
	if err != nil {
		l.log().Warn("step failed", "state", t.State, "error", err)
		return t, err
	}
	l.log().Debug("step", "from", t.State, "to", next.State, "mover", next.Mover, "ply", next.Ply)
	return next, nil
}

func (l *Loop) humanMove(ctx context.Context, t Turn) (Turn, error) {
	if o, over := l.Engine.Terminal(t.Position); over {
		return l.finish(t, o, nil)
	}
	m, err := l.Input.NextMove(ctx, l.Display)
	if err != nil {
		return t, err
	}
	text := m.String()
	parsed, err := l.Engine.ParseMove(text)
	if errors.Is(err, faults.ErrParseFailure) {
		l.log().Info("unparseable move", "move", text, "error", err)
		return t, writeLine(l.Display, StatusLine, "Bad notation!")
	}
	if err != nil {
		return t, faults.EngineFault("parse "+text, err)
	}
	t.State, t.Mover = ApplyingMove, Human
	t.Pending, t.Nodes = parsed, 0
	return t, nil
}

func (l *Loop) engineMove(t Turn) (Turn, error) {
	if err := writeLine(l.Display, StatusLine, "Evaluating..."); err != nil {
		return t, err
	}
	if err := l.indicate(true); err != nil {
		return t, err
	}
	res, err := l.Engine.Search(t.Position, l.depth())
	if ierr := l.indicate(false); ierr != nil && err == nil {
		return t, ierr
	}
	if err != nil {
		return t, faults.EngineFault("search", err)
	}
	if l.Counter != nil {
		if err := l.Counter.ShowCount(res.Nodes); err != nil {
			return t, faults.DisplayFault("show count", err)
		}
	}
	if res.Terminal {
		return l.finish(t, res.Outcome, nil)
	}
	line := "CPU: " + res.Move.String() + " " + strconv.Itoa(res.Nodes)
	if err := writeLine(l.Display, StatusLine, line); err != nil {
		return t, err
	}
	l.log().Info("engine move", "move", res.Move.String(), "nodes", res.Nodes, "score", res.Score)
	t.State, t.Mover = ApplyingMove, Computer
	t.Pending, t.Nodes = res.Move, res.Nodes
	return t, nil
}

func (l *Loop) apply(t Turn) (Turn, error) {
	text := t.Pending.String()
	side := t.Position.SideToMove()
	r := l.Engine.Apply(t.Position, t.Pending)

	if r.Kind == IllegalMove {
		if t.Mover == Computer {
			return t, faults.EngineFault("apply "+text, fmt.Errorf("%w: %s", faults.ErrIllegalMove, r.Reason))
		}
		l.log().Info("illegal move", "move", text, "reason", r.Reason)
		if err := writeLine(l.Display, StatusLine, "Illegal move!"); err != nil {
			return t, err
		}
		t.State = AwaitingHumanMove
		return t, nil
	}

	t.Position = r.Position
	t.Ply++
	rec := MoveRecord{
		Ply:      t.Ply,
		Player:   t.Mover,
		Side:     side,
		Notation: text,
		Position: r.Position.String(),
		Nodes:    t.Nodes,
	}

	switch r.Kind {
	case Victory:
		return l.finish(t, Win(r.Winner), &rec)
	case Stalemated:
		return l.finish(t, Stalemate, &rec)
	}
	l.record(rec)
	if t.Mover == Human {
		t.State, t.Mover = AwaitingEngineMove, Computer
	} else {
		t.State, t.Mover = AwaitingHumanMove, Human
	}
	return t, nil
}

// finish ends the game with o, recording last (the move that ended it, if
// any). The journal is only written once the display shows the outcome, so
// a Step that fails here leaves nothing to undo.
func (l *Loop) finish(t Turn, o Outcome, last *MoveRecord) (Turn, error) {
	if err := clearDisplay(l.Display); err != nil {
		return t, err
	}
	if err := write(l.Display, o.String()); err != nil {
		return t, err
	}
	t.State, t.Outcome = GameOver, o
	l.log().Info("game over", "outcome", o.String(), "ply", t.Ply)
	if last != nil {
		l.record(*last)
	}
	if l.Journal != nil {
		if err := l.Journal.Finish(o); err != nil {
			l.log().Warn("journal finish failed", "error", err)
		}
	}
	return t, nil
}

func (l *Loop) record(rec MoveRecord) {
	if l.Journal == nil {
		return
	}
	if err := l.Journal.RecordMove(rec); err != nil {
		l.log().Warn("journal record failed", "ply", rec.Ply, "error", err)
	}
}

func (l *Loop) indicate(on bool) error {
	if l.Indicator == nil {
		return nil
	}
	return faults.PeripheralFault("indicator", l.Indicator.Set(on))
}
