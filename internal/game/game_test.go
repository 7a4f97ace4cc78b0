package game

import (
	"testing"

	"github.com/hiveuhp/hive/internal/board"
	"github.com/hiveuhp/hive/internal/notation"
)

func TestFreshGameStatus(t *testing.T) {
	g, err := New(notation.GameType{})
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Status(); got != "Base;NotStarted;White[1]" {
		t.Fatalf("Status() = %q", got)
	}
}

func TestNewRejectsUnsupportedExpansion(t *testing.T) {
	if _, err := New(notation.GameType{Extensions: []board.Type{board.Mosquito}}); err == nil {
		t.Fatal("expected error creating a game requiring Mosquito")
	}
}

func TestPlayFirstMoveThenUndo(t *testing.T) {
	g, err := New(notation.GameType{})
	if err != nil {
		t.Fatal(err)
	}
	before := g.Status()
	if _, err := g.Play("wQ"); err != nil {
		t.Fatalf("Play(wQ): %v", err)
	}
	if got := g.Status(); got != "Base;InProgress;Black[1];wQ" {
		t.Fatalf("Status() = %q", got)
	}
	if err := g.Undo(1); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := g.Status(); got != before {
		t.Fatalf("Status() after undo = %q, want %q", got, before)
	}
}

func TestPassRejectedWhileMovesExist(t *testing.T) {
	g, err := New(notation.GameType{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Play("pass"); err == nil {
		t.Fatal("expected PassNotAllowed error")
	}
}

func TestQueenByFourForcesQueenPlacement(t *testing.T) {
	g, err := New(notation.GameType{})
	if err != nil {
		t.Fatal(err)
	}
	// Drive six plies (three full rounds) always choosing the
	// lexicographically first legal move. Piece letters sort
	// A < Q < S, so while an Ant remains in hand this keeps both
	// Queens in hand, setting up the Queen-by-4 check below.
	for i := 0; i < 6; i++ {
		moves, err := g.ValidMoves()
		if err != nil {
			t.Fatal(err)
		}
		if len(moves) == 0 {
			t.Fatalf("ply %d: no legal moves", i)
		}
		if _, err := g.Play(moves[0]); err != nil {
			t.Fatalf("ply %d: Play(%q): %v", i, moves[0], err)
		}
	}

	moves, err := g.ValidMoves()
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) == 0 {
		t.Fatal("expected at least one legal move")
	}
	for _, m := range moves {
		parsed, err := notation.ParseMove(m)
		if err != nil {
			t.Fatal(err)
		}
		if !parsed.Pass && parsed.Piece.Type != board.Queen {
			t.Fatalf("queen-by-4 violated: move %q allowed on White's 4th turn", m)
		}
	}
}

func TestUndoBeforeStartReinitialises(t *testing.T) {
	g, err := New(notation.GameType{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Play("wQ"); err != nil {
		t.Fatal(err)
	}
	if err := g.Undo(1); err != nil {
		t.Fatal(err)
	}
	if err := g.Undo(1); err != nil {
		t.Fatalf("undo past start: %v", err)
	}
	if got := g.Status(); got != "Base;NotStarted;White[1]" {
		t.Fatalf("Status() after undo past start = %q", got)
	}
}

func TestPerftDepths(t *testing.T) {
	cases := []struct {
		depth int
		want  int
	}{
		{1, 5},
		{2, 150},
		{3, 2162},
	}
	for _, c := range cases {
		g, err := New(notation.GameType{})
		if err != nil {
			t.Fatal(err)
		}
		got, err := perft(g, c.depth)
		if err != nil {
			t.Fatalf("perft(%d): %v", c.depth, err)
		}
		if got != c.want {
			t.Errorf("perft(%d) = %d, want %d", c.depth, got, c.want)
		}
	}
}

// perft counts the number of distinct move sequences of the given
// length reachable from g's current position, recursively playing and
// undoing each candidate move.
func perft(g *Game, depth int) (int, error) {
	if depth == 0 {
		return 1, nil
	}
	moves, err := g.ValidMoves()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, m := range moves {
		if _, err := g.Play(m); err != nil {
			return 0, err
		}
		n, err := perft(g, depth-1)
		if err != nil {
			return 0, err
		}
		total += n
		if err := g.Undo(1); err != nil {
			return 0, err
		}
	}
	return total, nil
}
