// Package board holds the physical state of a Hive game: which pieces
// are in hand, which are on the board and at what cell, and the stacking
// order at cells a Beetle has climbed onto. It knows nothing about move
// legality — that belongs to the rules package, which is built on top
// of the read-only queries this package exposes.
package board

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/hiveuhp/hive/internal/geom"
)

// Sentinel errors, wrapped with context via errors.Wrap at the call
// site. Callers that need to distinguish failure kinds should compare
// with errors.Is against these.
var (
	ErrPieceNotInHand  = errors.New("piece not in hand")
	ErrCellOccupied    = errors.New("cell already occupied")
	ErrPieceNotOnBoard = errors.New("piece not on board")
	ErrNothingToUndo   = errors.New("no moves to undo")
)

// entry is one link in a cell's stack, oldest (ground) piece at the
// bottom, most recently climbed Beetle on top.
type entry struct {
	piece Piece
	under *entry
}

// step is a single reversible change recorded on the history stack. It
// is either a placement (from == nil) or a slide/climb (from != nil).
type step struct {
	piece Piece
	from  *geom.Cell
	to    geom.Cell
}

// Hive is the mutable board: hands, occupied cells, and the move
// history needed to undo any number of plies.
type Hive struct {
	expansions map[Type]bool

	hand map[Color]map[Piece]bool
	cell map[geom.Cell]*entry
	at   map[Piece]geom.Cell

	history []step
}

// New builds an empty board for a Base game, optionally extended with
// the given expansion piece types (Mosquito, Ladybug, Pillbug).
func New(expansions ...Type) *Hive {
	exp := make(map[Type]bool, len(expansions))
	for _, t := range expansions {
		exp[t] = true
	}

	h := &Hive{
		expansions: exp,
		hand:       map[Color]map[Piece]bool{White: {}, Black: {}},
		cell:       map[geom.Cell]*entry{},
		at:         map[Piece]geom.Cell{},
	}

	for _, c := range []Color{White, Black} {
		for _, t := range []Type{Queen, Spider, Beetle, Ant, Grasshopper, Mosquito, Ladybug, Pillbug} {
			if !t.IsBase() && !exp[t] {
				continue
			}
			n := t.MaxPerColor()
			if n == 1 {
				h.hand[c][Piece{Color: c, Type: t}] = true
				continue
			}
			for i := 1; i <= n; i++ {
				h.hand[c][Piece{Color: c, Type: t, Number: i}] = true
			}
		}
	}
	return h
}

// Expansions reports which expansion piece types this game was started
// with.
func (h *Hive) Expansions() []Type {
	out := make([]Type, 0, len(h.expansions))
	for t := range h.expansions {
		out = append(out, t)
	}
	return out
}

// Add places piece, currently in hand, onto the given empty cell. It is
// the caller's job (the rules package) to ensure the cell respects
// adjacency and the one-hive rule; Add only enforces the physical
// invariants: the piece must still be in hand, and the target cell must
// be empty.
func (h *Hive) Add(piece Piece, to geom.Cell) error {
	if !h.hand[piece.Color][piece] {
		return errors.Wrapf(ErrPieceNotInHand, "%s at %v", piece, to)
	}
	if h.cell[to] != nil {
		return errors.Wrapf(ErrCellOccupied, "%v", to)
	}

	delete(h.hand[piece.Color], piece)
	h.cell[to] = &entry{piece: piece}
	h.at[piece] = to
	h.history = append(h.history, step{piece: piece, from: nil, to: to})
	return nil
}

// Move relocates a piece already on the board to the given destination
// cell, pushing it onto whatever stack (possibly empty) sits there.
// Physical-invariant checks only; sliding legality is the rules
// package's job.
func (h *Hive) Move(piece Piece, to geom.Cell) error {
	from, ok := h.at[piece]
	if !ok {
		return errors.Wrapf(ErrPieceNotOnBoard, "%s", piece)
	}

	h.popTop(from)
	h.cell[to] = &entry{piece: piece, under: h.cell[to]}
	h.at[piece] = to

	f := from
	h.history = append(h.history, step{piece: piece, from: &f, to: to})
	return nil
}

// popTop removes the top entry at a cell (must be non-nil and match the
// piece being moved away) and prunes the map key once the stack empties.
func (h *Hive) popTop(c geom.Cell) {
	top := h.cell[c]
	if top.under == nil {
		delete(h.cell, c)
		return
	}
	h.cell[c] = top.under
}

// Undo reverts the most recent n steps (placements or moves). It
// returns ErrNothingToUndo if fewer than n steps are recorded.
func (h *Hive) Undo(n int) error {
	if n > len(h.history) {
		return errors.Wrapf(ErrNothingToUndo, "requested %d, have %d", n, len(h.history))
	}
	for ; n > 0; n-- {
		last := h.history[len(h.history)-1]
		h.history = h.history[:len(h.history)-1]

		h.popTop(last.to)
		delete(h.at, last.piece)

		if last.from == nil {
			h.hand[last.piece.Color][last.piece] = true
			continue
		}
		h.cell[*last.from] = &entry{piece: last.piece, under: h.cell[*last.from]}
		h.at[last.piece] = *last.from
	}
	return nil
}

// PlyCount returns the number of recorded placements/moves, i.e. how
// many calls to Undo(1) would be needed to reach an empty board.
func (h *Hive) PlyCount() int {
	return len(h.history)
}

// Top returns the piece currently on top at c, if any.
func (h *Hive) Top(c geom.Cell) (Piece, bool) {
	e := h.cell[c]
	if e == nil {
		return Piece{}, false
	}
	return e.piece, true
}

// Occupied reports whether any piece sits at c.
func (h *Hive) Occupied(c geom.Cell) bool {
	return h.cell[c] != nil
}

// StackHeight is the number of pieces stacked at c (0 if empty).
func (h *Hive) StackHeight(c geom.Cell) int {
	n := 0
	for e := h.cell[c]; e != nil; e = e.under {
		n++
	}
	return n
}

// PositionOf returns the cell a piece occupies, if it is on the board.
func (h *Hive) PositionOf(piece Piece) (geom.Cell, bool) {
	c, ok := h.at[piece]
	return c, ok
}

// IsOnTop reports whether piece is the topmost piece at its cell (false
// both when it is buried and when it is not on the board at all).
func (h *Hive) IsOnTop(piece Piece) bool {
	c, ok := h.at[piece]
	if !ok {
		return false
	}
	top, _ := h.Top(c)
	return top == piece
}

// InHand lists the pieces of the given color still waiting to be
// played, in a stable Type/Number order.
func (h *Hive) InHand(c Color) []Piece {
	return stablePieceList(h.hand[c])
}

// OnBoard lists every piece of the given color currently on the board,
// regardless of stack depth, in a stable order.
func (h *Hive) OnBoard(c Color) []Piece {
	set := map[Piece]bool{}
	for p := range h.at {
		if p.Color == c {
			set[p] = true
		}
	}
	return stablePieceList(set)
}

// OccupiedCells returns every cell with at least one piece on it. Order
// is unspecified.
func (h *Hive) OccupiedCells() []geom.Cell {
	out := make([]geom.Cell, 0, len(h.cell))
	for c := range h.cell {
		out = append(out, c)
	}
	return out
}

// IsQueenPlaced reports whether color's Queen has been placed on the
// board (it may be buried under a Beetle and the answer is still yes).
func (h *Hive) IsQueenPlaced(c Color) bool {
	_, onBoard := h.at[Piece{Color: c, Type: Queen}]
	return onBoard
}

func stablePieceList(set map[Piece]bool) []Piece {
	out := make([]Piece, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	// Stable ordering keyed by type then number; colors never mix within
	// a single call since both InHand and OnBoard filter by color.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func less(a, b Piece) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return a.Number < b.Number
}

func (h *Hive) String() string {
	return fmt.Sprintf("Hive{pieces=%d, plies=%d}", len(h.at), len(h.history))
}
