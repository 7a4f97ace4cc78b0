// Package game implements the controller that owns a board and rules
// engine pair, advances turn state, enforces placement-order and
// terminal-state rules, and serialises/replays games as game strings.
package game

import (
	"sort"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/hiveuhp/hive/internal/board"
	"github.com/hiveuhp/hive/internal/geom"
	"github.com/hiveuhp/hive/internal/notation"
	"github.com/hiveuhp/hive/internal/rules"
)

// RulesError kinds. These are sentinel values; the actual error
// returned from a Game method is always wrapped with context via
// errors.Wrap, so callers should compare with errors.Is.
var (
	ErrInvalidPieceColor      = errors.New("invalid piece color for mover")
	ErrInvalidAddingPiece     = errors.New("piece not eligible for placement this turn")
	ErrInvalidAddingPosition  = errors.New("cell not a legal placement")
	ErrInvalidMovingPosition  = errors.New("cell not a legal destination")
	ErrInvalidExpansionPiece  = errors.New("expansion piece not declared for this game")
	ErrPassNotAllowed         = errors.New("pass is not allowed while legal moves exist")
	ErrNotSupportedExpansions = errors.New("requested expansion pieces are not supported")
	ErrGameNotPossible        = errors.New("game string does not replay to its declared state")
	ErrGameTerminated         = errors.New("game has already ended")
)

// Game is the top-level controller: board + rules + turn/lifecycle
// state. Every exported method runs to completion before returning;
// there is no internal concurrency.
type Game struct {
	b      *board.Hive
	r      *rules.Provider
	gt     notation.GameType
	state  notation.GameState
	turn   board.Color
	turnNo int
	moves  []string
}

// New creates a fresh game of the given type ("Base" or "Base+MLP"
// etc). It fails if the type requests an expansion piece this rules
// engine does not support.
func New(gt notation.GameType) (*Game, error) {
	supported := map[board.Type]bool{}
	for _, t := range (&rules.Provider{}).SupportedExpansions() {
		supported[t] = true
	}
	var unsupported []board.Type
	for _, t := range gt.Extensions {
		if !supported[t] {
			unsupported = append(unsupported, t)
		}
	}
	if len(unsupported) > 0 {
		return nil, errors.Wrapf(ErrNotSupportedExpansions, "%v", unsupported)
	}

	b := board.New(gt.Extensions...)
	return &Game{
		b:      b,
		r:      rules.New(b),
		gt:     gt,
		state:  notation.NotStarted,
		turn:   board.White,
		turnNo: 1,
	}, nil
}

// Load parses a game string, replays every move from a fresh game of
// the declared type, and verifies the result matches the declared
// state and turn. On any mismatch it returns a fresh NotStarted Base
// game alongside ErrGameNotPossible.
func Load(s string) (*Game, error) {
	parsed, err := notation.ParseGame(s)
	if err != nil {
		return nil, err
	}

	g, err := New(parsed.Type)
	if err != nil {
		return nil, err
	}

	for _, m := range parsed.Moves {
		if _, playErr := g.Play(m); playErr != nil {
			fresh, _ := New(notation.GameType{})
			return fresh, errors.Wrapf(ErrGameNotPossible, "%s: replaying %q: %v", s, m, playErr)
		}
	}

	if g.state != parsed.State || g.turn != parsed.Turn.Color || g.turnNo != parsed.Turn.Number {
		fresh, _ := New(notation.GameType{})
		return fresh, errors.Wrapf(ErrGameNotPossible, "%s: replay ended at %s, declared %s", s, g.Status(), s)
	}
	return g, nil
}

// Status serialises the current game as a game string.
func (g *Game) Status() string {
	return notation.BuildGame(notation.Game{
		Type:  g.gt,
		State: g.state,
		Turn:  notation.Turn{Color: g.turn, Number: g.turnNo},
		Moves: g.moves,
	})
}

// ValidMoves returns the current mover's legal moves as canonical
// strings ("pass" alone if none exist).
func (g *Game) ValidMoves() ([]string, error) {
	return g.r.ValidMoves(g.turn, g.turnNo)
}

// Play parses and applies moveString as the current mover's ply. On
// success it returns the game's new status string. On any rule
// violation the board is left exactly as it was before the call.
func (g *Game) Play(moveString string) (string, error) {
	if g.isTerminal() {
		return "", errors.Wrapf(ErrGameTerminated, "play %q", moveString)
	}

	move, err := notation.ParseMove(moveString)
	if err != nil {
		return "", err
	}

	if move.Pass {
		valid, err := g.ValidMoves()
		if err != nil {
			return "", err
		}
		if !(len(valid) == 1 && valid[0] == "pass") {
			return "", errors.Wrapf(ErrPassNotAllowed, "legal moves exist")
		}
		g.finishPly("pass")
		return g.Status(), nil
	}

	if err := g.applyMove(move); err != nil {
		return "", err
	}
	canonical, err := notation.BuildMove(move)
	if err != nil {
		return "", err
	}
	g.finishPly(canonical)
	return g.Status(), nil
}

// applyMove dispatches a parsed, non-pass move to the placement or
// movement branch and mutates the board accordingly.
func (g *Game) applyMove(move notation.Move) error {
	piece := move.Piece
	if piece.Color != g.turn {
		return errors.Wrapf(ErrInvalidPieceColor, "%s on %s's turn", piece, g.turn)
	}

	var target geom.Cell
	if move.HasRef {
		refCell, onBoard := g.b.PositionOf(move.Ref)
		if !onBoard {
			return errors.Wrapf(ErrInvalidMovingPosition, "reference %s not on board", move.Ref)
		}
		target = geom.Destination(refCell, move.Relation)
	} else if len(g.b.OccupiedCells()) == 0 {
		target = geom.Cell{}
	} else {
		return errors.Wrapf(ErrInvalidMovingPosition, "%s: missing reference on non-empty board", piece)
	}

	eligibleToAdd := map[board.Piece]bool{}
	for _, p := range g.r.PiecesToAdd(g.turn, g.turnNo) {
		eligibleToAdd[p] = true
	}

	_, onBoard := g.b.PositionOf(piece)

	switch {
	case !onBoard && eligibleToAdd[piece]:
		addCells := map[geom.Cell]bool{}
		for _, c := range g.r.AddingPositions(g.turn) {
			addCells[c] = true
		}
		if !addCells[target] {
			return errors.Wrapf(ErrInvalidAddingPosition, "%s -> %v", piece, target)
		}
		return g.b.Add(piece, target)

	case onBoard:
		moveCells := map[geom.Cell]bool{}
		for _, c := range g.r.MovePositions(piece) {
			moveCells[c] = true
		}
		if !moveCells[target] {
			return errors.Wrapf(ErrInvalidMovingPosition, "%s -> %v", piece, target)
		}
		return g.b.Move(piece, target)

	case !piece.Type.IsBase() && !g.expansionEnabled(piece.Type):
		return errors.Wrapf(ErrInvalidExpansionPiece, "%s", piece)

	default:
		return errors.Wrapf(ErrInvalidAddingPiece, "%s", piece)
	}
}

func (g *Game) expansionEnabled(t board.Type) bool {
	for _, e := range g.gt.Extensions {
		if e == t {
			return true
		}
	}
	return false
}

// finishPly appends the canonical move string, evaluates terminal
// state, and advances the turn.
func (g *Game) finishPly(canonical string) {
	g.moves = append(g.moves, canonical)

	whiteSurrounded := g.r.BeeSurrounded(board.White)
	blackSurrounded := g.r.BeeSurrounded(board.Black)
	switch {
	case whiteSurrounded && blackSurrounded:
		g.state = notation.Draw
	case whiteSurrounded:
		g.state = notation.BlackWins
	case blackSurrounded:
		g.state = notation.WhiteWins
	default:
		g.state = notation.InProgress
	}

	next := g.turn.Opponent()
	if next == board.White {
		g.turnNo++
	}
	g.turn = next
}

func (g *Game) isTerminal() bool {
	return g.state == notation.Draw || g.state == notation.WhiteWins || g.state == notation.BlackWins
}

// Undo reverses the last n half-moves (plies). If that would walk
// before the start of the game, it reinitialises to a brand new bare
// Base game instead, regardless of what type was being played.
func (g *Game) Undo(n int) error {
	if n > len(g.moves) {
		n = len(g.moves)
	}

	turnNo, turn := g.turnNo, g.turn
	for i := 0; i < n; i++ {
		if turn == board.White {
			turnNo--
		}
		turn = turn.Opponent()
	}

	if turnNo < 1 {
		fresh, err := New(notation.GameType{})
		if err != nil {
			return err
		}
		*g = *fresh
		return nil
	}

	if err := g.b.Undo(n); err != nil {
		return err
	}
	g.moves = g.moves[:len(g.moves)-n]
	g.turnNo, g.turn = turnNo, turn
	if len(g.moves) == 0 {
		g.state = notation.NotStarted
	} else {
		g.state = notation.InProgress
	}
	return nil
}

// BestMove picks a legal move without attempting genuine search: real
// engine strength is an external integration point this core only
// stubs out. It returns the lexicographically first move of the Queen
// (placement or movement) when one is legal, which covers the
// Queen-by-4 turn, and otherwise the lexicographically first canonical
// move, so that it is at least deterministic and reproducible across
// runs.
func (g *Game) BestMove() (string, error) {
	moves, err := g.ValidMoves()
	if err != nil {
		return "", err
	}
	if len(moves) == 0 {
		return "", errors.New("no candidate moves")
	}
	if len(moves) == 1 {
		return moves[0], nil
	}

	sorted := append([]string(nil), moves...)
	sort.Strings(sorted)

	for _, m := range sorted {
		parsed, err := notation.ParseMove(m)
		if err == nil && !parsed.Pass && parsed.Piece.Type == board.Queen {
			klog.V(3).Infof("bestmove: choosing queen move %q", m)
			return m, nil
		}
	}
	return sorted[0], nil
}
