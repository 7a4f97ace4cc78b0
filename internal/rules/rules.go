// Package rules implements legal move enumeration and the terminal and
// structural predicates (One Hive, Freedom to Move, Queen-by-4,
// surrounded-Queen) on top of a board.Hive. It never mutates the board
// it is given; every query is a pure function of current board state.
package rules

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/hiveuhp/hive/internal/board"
	"github.com/hiveuhp/hive/internal/geom"
	"github.com/hiveuhp/hive/internal/notation"
)

// ErrNoReference signals that CanonicalMoveString could not find a
// neighbouring reference piece for an otherwise legal destination — an
// internal invariant violation, since every legal destination (beyond
// the very first move) must touch the hive.
var ErrNoReference = errors.New("no reference piece adjacent to destination")

// Provider answers legality questions against a single board.Hive.
// It holds no state of its own.
type Provider struct {
	b *board.Hive
}

// New builds a Provider over the given board.
func New(b *board.Hive) *Provider {
	return &Provider{b: b}
}

// SupportedExpansions is empty: this rules engine implements only the
// Base piece set. A game string that declares Mosquito, Ladybug or
// Pillbug is rejected by the game controller before reaching here.
func (p *Provider) SupportedExpansions() []board.Type {
	return nil
}

// AddingPositions returns the cells at which color may legally place a
// new piece from hand this turn.
func (p *Provider) AddingPositions(color board.Color) []geom.Cell {
	whiteCount := len(p.b.OnBoard(board.White))
	blackCount := len(p.b.OnBoard(board.Black))

	if whiteCount == 0 && blackCount == 0 {
		return []geom.Cell{{}}
	}

	mine := len(p.b.OnBoard(color))
	theirs := len(p.b.OnBoard(color.Opponent()))
	if mine == 0 && theirs == 1 {
		opp := p.b.OnBoard(color.Opponent())[0]
		c, _ := p.b.PositionOf(opp)
		ns := geom.Neighbours(c)
		out := make([]geom.Cell, len(ns))
		copy(out, ns[:])
		return out
	}

	ownCells, oppCells := p.topCellsByOwner(color)

	candidates := map[geom.Cell]bool{}
	for c := range ownCells {
		for _, n := range geom.Neighbours(c) {
			if p.b.Occupied(n) {
				continue
			}
			candidates[n] = true
		}
	}
	for c := range candidates {
		for _, n := range geom.Neighbours(c) {
			if oppCells[n] {
				delete(candidates, c)
				break
			}
		}
	}

	out := make([]geom.Cell, 0, len(candidates))
	for c := range candidates {
		out = append(out, c)
	}
	return out
}

// topCellsByOwner partitions every occupied cell by the color of the
// piece currently on top of its stack.
func (p *Provider) topCellsByOwner(mover board.Color) (mine, theirs map[geom.Cell]bool) {
	mine = map[geom.Cell]bool{}
	theirs = map[geom.Cell]bool{}
	for _, c := range p.b.OccupiedCells() {
		top, _ := p.b.Top(c)
		if top.Color == mover {
			mine[c] = true
		} else {
			theirs[c] = true
		}
	}
	return mine, theirs
}

// PiecesToAdd returns the pieces from color's hand eligible for
// placement this turn: everything, unless the Queen-by-4 rule kicks in
// (Queen still in hand on the colour's own fourth turn), in which case
// only the Queen is eligible. Duplicate-type instances collapse to the
// lowest-numbered one, since any of them placed at the same cell is the
// same move.
func (p *Provider) PiecesToAdd(color board.Color, turnNumber int) []board.Piece {
	hand := p.b.InHand(color)
	if !p.b.IsQueenPlaced(color) && turnNumber == 4 {
		for _, piece := range hand {
			if piece.Type == board.Queen {
				return []board.Piece{piece}
			}
		}
		return nil
	}
	return canonicalizeByType(hand)
}

func canonicalizeByType(pieces []board.Piece) []board.Piece {
	seen := map[board.Type]bool{}
	var out []board.Piece
	for _, piece := range pieces {
		if seen[piece.Type] {
			continue
		}
		seen[piece.Type] = true
		out = append(out, piece)
	}
	return out
}

// MovePositions returns the legal destination cells for an on-board
// piece this turn: nil if the piece cannot move at all (buried, the
// mover's Queen is not yet down, or moving it would break the One
// Hive).
func (p *Provider) MovePositions(piece board.Piece) []geom.Cell {
	cell, onBoard := p.b.PositionOf(piece)
	if !onBoard || !p.b.IsOnTop(piece) {
		return nil
	}
	if !p.b.IsQueenPlaced(piece.Color) {
		return nil
	}
	if p.IsOneHiveBroken(piece) {
		return nil
	}

	switch piece.Type {
	case board.Queen:
		return p.slideStep(cell)
	case board.Spider:
		return p.spiderMoves(cell)
	case board.Ant:
		return p.antMoves(cell)
	case board.Beetle:
		return p.beetleMoves(cell)
	case board.Grasshopper:
		return p.grasshopperMoves(cell)
	default:
		return nil
	}
}

// IsOneHiveBroken reports whether removing piece (from the top of its
// cell) would disconnect the occupied-cells graph. A piece that is not
// alone at its cell (something under it, or it is buried) can always be
// lifted without changing which cells are occupied, so it never breaks
// the hive.
func (p *Provider) IsOneHiveBroken(piece board.Piece) bool {
	cell, onBoard := p.b.PositionOf(piece)
	if !onBoard {
		return false
	}
	if p.b.StackHeight(cell) > 1 {
		return false
	}

	occupied := p.b.OccupiedCells()
	remaining := make(map[geom.Cell]bool, len(occupied))
	for _, c := range occupied {
		if c != cell {
			remaining[c] = true
		}
	}
	if len(remaining) <= 1 {
		return false
	}

	var start geom.Cell
	for c := range remaining {
		start = c
		break
	}

	visited := map[geom.Cell]bool{start: true}
	queue := []geom.Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range geom.Neighbours(cur) {
			if remaining[n] && !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(visited) != len(remaining)
}

// BeeSurrounded reports whether color's Queen is on the board and has
// all six neighbouring cells occupied.
func (p *Provider) BeeSurrounded(color board.Color) bool {
	cell, onBoard := p.b.PositionOf(board.Piece{Color: color, Type: board.Queen})
	if !onBoard {
		return false
	}
	for _, n := range geom.Neighbours(cell) {
		if !p.b.Occupied(n) {
			return false
		}
	}
	return true
}

// flankingCells returns the two cells adjacent to both from and to,
// which Freedom to Move tests for occupancy.
func flankingCells(from, to geom.Cell) (a, b geom.Cell, ok bool) {
	dir, adjacent := geom.RelationOf(to, from)
	if !adjacent || dir == geom.Same {
		return geom.Cell{}, geom.Cell{}, false
	}
	dirs := geom.ClockwiseDirections()
	idx := -1
	for i, d := range dirs {
		if d == dir {
			idx = i
			break
		}
	}
	a = geom.Destination(from, dirs[(idx+5)%6])
	b = geom.Destination(from, dirs[(idx+1)%6])
	return a, b, true
}

// canSlide implements Freedom to Move: a slide from an occupied cell
// "from" onto the empty neighbour "to" is legal iff exactly one of the
// two flanking cells is occupied.
func (p *Provider) canSlide(from, to geom.Cell) bool {
	a, b, ok := flankingCells(from, to)
	if !ok {
		return false
	}
	return p.b.Occupied(a) != p.b.Occupied(b)
}

// slideStep returns every empty neighbour of from reachable by a
// single legal slide — the Queen's full move set, and the base case
// for Spider and Ant traversal.
func (p *Provider) slideStep(from geom.Cell) []geom.Cell {
	var out []geom.Cell
	for _, n := range geom.Neighbours(from) {
		if p.b.Occupied(n) {
			continue
		}
		if p.canSlide(from, n) {
			out = append(out, n)
		}
	}
	return out
}

// spiderMoves enumerates destinations reachable by exactly three
// distinct Queen-style slides from start, revisiting no cell. A fresh
// visited set is allocated per call: the source's generator shared one
// default-constructed set across invocations, which silently polluted
// later searches with stale visited cells — this implementation
// allocates new state on every top-level call instead.
func (p *Provider) spiderMoves(start geom.Cell) []geom.Cell {
	visited := map[geom.Cell]bool{start: true}
	results := map[geom.Cell]bool{}
	p.spiderWalk(start, start, 0, visited, results)

	out := make([]geom.Cell, 0, len(results))
	for c := range results {
		out = append(out, c)
	}
	return out
}

func (p *Provider) spiderWalk(start, cur geom.Cell, depth int, visited, results map[geom.Cell]bool) {
	if depth == 3 {
		if cur != start {
			results[cur] = true
		}
		return
	}
	for _, n := range p.slideStep(cur) {
		if visited[n] {
			continue
		}
		visited[n] = true
		p.spiderWalk(start, n, depth+1, visited, results)
		delete(visited, n)
	}
}

// antMoves enumerates every cell reachable by one or more Queen-style
// slides from start, revisiting no cell. A fresh visited/results pair
// is allocated per call (see spiderMoves).
func (p *Provider) antMoves(start geom.Cell) []geom.Cell {
	visited := map[geom.Cell]bool{start: true}
	results := map[geom.Cell]bool{}
	p.antWalk(start, visited, results)

	out := make([]geom.Cell, 0, len(results))
	for c := range results {
		out = append(out, c)
	}
	return out
}

func (p *Provider) antWalk(cur geom.Cell, visited, results map[geom.Cell]bool) {
	for _, n := range p.slideStep(cur) {
		if visited[n] {
			continue
		}
		visited[n] = true
		results[n] = true
		p.antWalk(n, visited, results)
		delete(visited, n)
	}
}

// beetleMoves enumerates the Beetle's single-step moves, including
// climbs onto and descents off of stacks, using the 3D Freedom to Move
// generalisation.
func (p *Provider) beetleMoves(from geom.Cell) []geom.Cell {
	hA := p.b.StackHeight(from) - 1
	var out []geom.Cell
	for _, to := range geom.Neighbours(from) {
		hB := p.b.StackHeight(to)
		l, r, ok := flankingCells(from, to)
		if !ok {
			continue
		}
		hL, hR := p.b.StackHeight(l), p.b.StackHeight(r)
		if hA == 0 && hB == 0 && hL == 0 && hR == 0 {
			// A ground-level step, like the Queen's slide, needs an
			// occupied flanking cell to keep contact with the hive.
			continue
		}
		lo := hL
		if hR < lo {
			lo = hR
		}
		hi := hA
		if hB > hi {
			hi = hB
		}
		if lo > hi {
			continue
		}
		out = append(out, to)
	}
	return out
}

// grasshopperMoves enumerates the Grasshopper's hops: for each
// direction with at least one occupied immediate neighbour, hop in a
// straight line over contiguous occupied cells to the first empty
// cell beyond. Destination repeatedly asks Geometry for the
// parity-appropriate offset, so the hop automatically alternates
// between the two row-parity tables as it crosses rows.
func (p *Provider) grasshopperMoves(from geom.Cell) []geom.Cell {
	var out []geom.Cell
	for _, dir := range geom.ClockwiseDirections() {
		first := geom.Destination(from, dir)
		if !p.b.Occupied(first) {
			continue
		}
		cur := first
		for p.b.Occupied(cur) {
			cur = geom.Destination(cur, dir)
		}
		out = append(out, cur)
	}
	return out
}

// CanonicalMoveString renders the move of piece to target as the
// canonical notation string: a bare piece string for the game's first
// move, otherwise a relation to the first occupied neighbour of target
// (scanned clockwise) whose top piece is not the moving piece itself.
func (p *Provider) CanonicalMoveString(piece board.Piece, target geom.Cell) (string, error) {
	if len(p.b.OccupiedCells()) == 0 {
		return notation.BuildPiece(piece), nil
	}
	for _, n := range geom.Neighbours(target) {
		top, ok := p.b.Top(n)
		if !ok || top == piece {
			continue
		}
		dir, adjacent := geom.RelationOf(target, n)
		if !adjacent {
			continue
		}
		relPart, err := notation.BuildRelPart(dir, notation.BuildPiece(top))
		if err != nil {
			return "", err
		}
		return notation.BuildPiece(piece) + " " + relPart, nil
	}
	return "", errors.Wrapf(ErrNoReference, "%s -> %v", piece, target)
}

// ValidMoves returns every legal move string for color on the given
// turn number, in a stable order; if no move is legal it returns the
// singleton "pass".
func (p *Provider) ValidMoves(color board.Color, turnNumber int) ([]string, error) {
	var moves []string

	addCells := p.AddingPositions(color)
	for _, piece := range p.PiecesToAdd(color, turnNumber) {
		for _, cell := range addCells {
			s, err := p.CanonicalMoveString(piece, cell)
			if err != nil {
				return nil, err
			}
			moves = append(moves, s)
		}
	}

	for _, piece := range p.b.OnBoard(color) {
		for _, cell := range p.MovePositions(piece) {
			s, err := p.CanonicalMoveString(piece, cell)
			if err != nil {
				return nil, err
			}
			moves = append(moves, s)
		}
	}

	if len(moves) == 0 {
		return []string{"pass"}, nil
	}
	sort.Strings(moves)
	return moves, nil
}
