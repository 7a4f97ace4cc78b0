// Package geom implements the hex-grid coordinate system shared by the
// board and rules engine: cells, the six adjacency directions, and the
// two row-parity offset tables that everything else in this module asks
// for rather than hard-coding.
package geom

// Cell is a position on the infinite hex grid, using an offset (row, col)
// scheme. Only occupied cells are ever materialised by callers.
type Cell struct {
	R, Q int
}

// Direction is one of the six compass-like adjacency relations between
// two neighbouring cells, plus Same for "directly on top of".
type Direction int

const (
	// Same expresses "this cell", used only for stacking (a Beetle
	// climbing onto the piece already at the reference cell).
	Same Direction = iota
	NW
	N
	NE
	SE
	S
	SW
)

func (d Direction) String() string {
	switch d {
	case Same:
		return "same"
	case NW:
		return "NW"
	case N:
		return "N"
	case NE:
		return "NE"
	case SE:
		return "SE"
	case S:
		return "S"
	case SW:
		return "SW"
	default:
		return "invalid"
	}
}

// clockwise is the fixed direction order used everywhere a caller needs
// "all six neighbours in clockwise order starting at NW" — the canonical
// reference-piece scan in move-string construction walks this exact
// order.
var clockwise = [6]Direction{NW, N, NE, SE, S, SW}

// evenOffsets and oddOffsets are the two parity-dependent neighbour
// tables. This implementation commits to the convention that a row is
// "even" when r%2==0 (see DESIGN.md for the Open Question this resolves
// against the source's inverted r%2==1 convention). The choice only
// affects the textual coordinate dump: every consumer asks this package
// for offsets rather than encoding them inline, so game outcomes are
// unaffected either way.
var evenOffsets = map[Direction]Cell{
	NW: {R: -1, Q: 1},
	N:  {R: 0, Q: 1},
	NE: {R: 1, Q: 1},
	SE: {R: 1, Q: 0},
	S:  {R: 0, Q: -1},
	SW: {R: -1, Q: 0},
}

var oddOffsets = map[Direction]Cell{
	NW: {R: -1, Q: 0},
	N:  {R: 0, Q: 1},
	NE: {R: 1, Q: 0},
	SE: {R: 1, Q: -1},
	S:  {R: 0, Q: -1},
	SW: {R: -1, Q: -1},
}

// IsRowEven reports whether the given cell's row uses the even-row
// offset table.
func IsRowEven(c Cell) bool {
	return c.R%2 == 0
}

// offsetsFor returns the offset table applicable at the given cell.
func offsetsFor(c Cell) map[Direction]Cell {
	if IsRowEven(c) {
		return evenOffsets
	}
	return oddOffsets
}

// EvenOffsets returns the six clockwise offsets used on even rows, used
// directly by the Grasshopper's alternating-row traversal.
func EvenOffsets() [6]Cell {
	var out [6]Cell
	for i, d := range clockwise {
		out[i] = evenOffsets[d]
	}
	return out
}

// OddOffsets returns the six clockwise offsets used on odd rows.
func OddOffsets() [6]Cell {
	var out [6]Cell
	for i, d := range clockwise {
		out[i] = oddOffsets[d]
	}
	return out
}

// Destination applies direction dir from refCell. Same returns refCell
// unchanged (used to express "stacked on top of").
func Destination(refCell Cell, dir Direction) Cell {
	if dir == Same {
		return refCell
	}
	off := offsetsFor(refCell)[dir]
	return Cell{R: refCell.R + off.R, Q: refCell.Q + off.Q}
}

// RelationOf returns the direction from refCell to cell, defined only
// when the two cells are adjacent or equal (Same). ok is false for any
// other pair.
func RelationOf(cell, refCell Cell) (dir Direction, ok bool) {
	if cell == refCell {
		return Same, true
	}
	offset := Cell{R: cell.R - refCell.R, Q: cell.Q - refCell.Q}
	for d, o := range offsetsFor(refCell) {
		if o == offset {
			return d, true
		}
	}
	return Same, false
}

// Neighbours returns the six cells adjacent to c, in the fixed clockwise
// order starting at NW.
func Neighbours(c Cell) [6]Cell {
	var out [6]Cell
	offsets := offsetsFor(c)
	for i, d := range clockwise {
		off := offsets[d]
		out[i] = Cell{R: c.R + off.R, Q: c.Q + off.Q}
	}
	return out
}

// ClockwiseDirections returns the fixed NW,N,NE,SE,S,SW order.
func ClockwiseDirections() [6]Direction {
	return clockwise
}
