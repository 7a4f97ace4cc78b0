package uhp

import (
	"bytes"
	"strings"
	"testing"
)

func run(t *testing.T, commands string) []string {
	t.Helper()
	var out bytes.Buffer
	u := New(&out)
	u.Run(strings.NewReader(commands))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	return lines
}

func TestInfo(t *testing.T) {
	lines := run(t, "info\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "id HiveUHP v") || lines[1] != "ok" {
		t.Fatalf("unexpected output: %v", lines)
	}
}

func TestNewGameThenPlayThenUndo(t *testing.T) {
	lines := run(t, "newgame\nplay wQ\nundo\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %v", lines)
	}
	if lines[0] != "Base;NotStarted;White[1]" || lines[1] != "ok" {
		t.Fatalf("newgame response: %v", lines[:2])
	}
	if lines[2] != "Base;InProgress;Black[1];wQ" || lines[3] != "ok" {
		t.Fatalf("play response: %v", lines[2:4])
	}
	if lines[4] != "Base;NotStarted;White[1]" || lines[5] != "ok" {
		t.Fatalf("undo response: %v", lines[4:])
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	lines := run(t, "bogus\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "err ") || lines[1] != "ok" {
		t.Fatalf("unexpected output: %v", lines)
	}
}

func TestValidMovesOnFreshGame(t *testing.T) {
	lines := run(t, "newgame\nvalidmoves\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %v", lines)
	}
	fields := strings.Split(lines[2], ";")
	if len(fields) != 5 {
		t.Fatalf("expected 5 canonical first moves, got %d: %v", len(fields), fields)
	}
}

func TestPlayUnsupportedExpansionErrors(t *testing.T) {
	lines := run(t, "newgame\nplay wM\n")
	if !strings.HasPrefix(lines[2], "err") {
		t.Fatalf("expected err for unsupported expansion piece, got %v", lines[2])
	}
}
