package notation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiveuhp/hive/internal/board"
	"github.com/hiveuhp/hive/internal/geom"
)

func TestPieceRoundTrip(t *testing.T) {
	cases := []string{"wQ", "bQ", "wS1", "bS2", "wA3", "bG1", "wM", "bL", "wP"}
	for _, s := range cases {
		p, err := ParsePiece(s)
		require.NoError(t, err, "ParsePiece(%q)", s)
		require.Equal(t, s, BuildPiece(p), "BuildPiece(ParsePiece(%q))", s)
	}
}

func TestPieceRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "xQ", "wS3", "wA4", "wQ1", "w"} {
		_, err := ParsePiece(s)
		require.Error(t, err, "expected error parsing %q", s)
	}
}

func TestRelPartRoundTripsAllDirections(t *testing.T) {
	for _, d := range geom.ClockwiseDirections() {
		part, err := BuildRelPart(d, "wQ")
		require.NoError(t, err, "BuildRelPart(%v)", d)

		ref, dir, err := ParseRelPart(part)
		require.NoError(t, err, "ParseRelPart(%q)", part)
		require.Equal(t, "wQ", ref)
		require.Equal(t, d, dir)
	}
}

func TestMoveRoundTrip(t *testing.T) {
	m := Move{
		Piece:    board.Piece{Color: board.White, Type: board.Ant, Number: 1},
		HasRef:   true,
		Ref:      board.Piece{Color: board.Black, Type: board.Grasshopper, Number: 2},
		Relation: geom.SE,
	}
	s, err := BuildMove(m)
	require.NoError(t, err)

	got, err := ParseMove(s)
	require.NoError(t, err, "ParseMove(%q)", s)
	require.Equal(t, m, got)
}

func TestMoveStringFirstPly(t *testing.T) {
	m, err := ParseMove("wQ")
	require.NoError(t, err)
	require.False(t, m.HasRef)
	require.False(t, m.Pass)
}

func TestPassRoundTrip(t *testing.T) {
	m, err := ParseMove("pass")
	require.NoError(t, err)
	require.True(t, m.Pass)

	s, err := BuildMove(m)
	require.NoError(t, err)
	require.Equal(t, "pass", s)
}

func TestGameTypeRoundTrip(t *testing.T) {
	for _, s := range []string{"Base", "Base+M", "Base+MLP", "Base+PL"} {
		gt, err := ParseGameType(s)
		require.NoError(t, err, "ParseGameType(%q)", s)
		again, err := ParseGameType(BuildGameType(gt))
		require.NoError(t, err, "ParseGameType(BuildGameType(%q))", s)
		require.Equal(t, gt, again, "round trip of %q", s)
	}

	gt, err := ParseGameType("Base+PL")
	require.NoError(t, err)
	require.Equal(t, "Base+LP", BuildGameType(gt), "canonical extension order")
}

func TestGameTypeRejectsDuplicateLetters(t *testing.T) {
	_, err := ParseGameType("Base+MM")
	require.Error(t, err, "expected error for duplicate expansion letter")
}

func TestTurnRoundTrip(t *testing.T) {
	turn, err := ParseTurn("White[3]")
	require.NoError(t, err)
	require.Equal(t, board.White, turn.Color)
	require.Equal(t, 3, turn.Number)
	require.Equal(t, "White[3]", BuildTurn(turn))
}

func TestGameStringRoundTrip(t *testing.T) {
	s := "Base;InProgress;White[3];wS1;bG1 -wS1;wA1 wS1/;bG2 /bG1"
	g, err := ParseGame(s)
	require.NoError(t, err)
	require.Equal(t, s, BuildGame(g))
}

func TestFreshGameStatusString(t *testing.T) {
	g := Game{Type: GameType{}, State: NotStarted, Turn: Turn{Color: board.White, Number: 1}}
	require.Equal(t, "Base;NotStarted;White[1]", BuildGame(g))
}
