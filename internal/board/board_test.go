package board

import (
	"testing"

	"github.com/hiveuhp/hive/internal/geom"
)

func TestAddAndUndo(t *testing.T) {
	h := New()
	wq := Piece{Color: White, Type: Queen}
	origin := geom.Cell{}

	if err := h.Add(wq, origin); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !h.Occupied(origin) {
		t.Fatal("expected origin occupied after Add")
	}
	if top, ok := h.Top(origin); !ok || top != wq {
		t.Fatalf("Top(origin) = %v,%v want %v,true", top, ok, wq)
	}
	if !h.IsQueenPlaced(White) {
		t.Fatal("expected White queen placed")
	}

	if err := h.Undo(1); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if h.Occupied(origin) {
		t.Fatal("expected origin empty after undo")
	}
	if h.IsQueenPlaced(White) {
		t.Fatal("expected White queen back in hand after undo")
	}
	found := false
	for _, p := range h.InHand(White) {
		if p == wq {
			found = true
		}
	}
	if !found {
		t.Fatal("expected queen back in hand")
	}
}

func TestAddRejectsOccupiedCellAndMissingHandPiece(t *testing.T) {
	h := New()
	wq := Piece{Color: White, Type: Queen}
	bq := Piece{Color: Black, Type: Queen}
	origin := geom.Cell{}

	if err := h.Add(wq, origin); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := h.Add(bq, origin); err == nil {
		t.Fatal("expected ErrCellOccupied")
	}
	if err := h.Add(wq, geom.Cell{R: 5, Q: 5}); err == nil {
		t.Fatal("expected ErrPieceNotInHand for piece no longer in hand")
	}
}

func TestMoveStacksAndUndoUnstacks(t *testing.T) {
	h := New()
	wq := Piece{Color: White, Type: Queen}
	wb := Piece{Color: White, Type: Beetle, Number: 1}
	bq := Piece{Color: Black, Type: Queen}

	origin := geom.Cell{}
	side := geom.Destination(origin, geom.N)

	if err := h.Add(wq, origin); err != nil {
		t.Fatal(err)
	}
	if err := h.Add(bq, side); err != nil {
		t.Fatal(err)
	}
	if err := h.Add(wb, geom.Destination(side, geom.N)); err != nil {
		t.Fatal(err)
	}
	if err := h.Move(wb, side); err != nil {
		t.Fatalf("Move (climb): %v", err)
	}
	if h.StackHeight(side) != 2 {
		t.Fatalf("StackHeight(side) = %d, want 2", h.StackHeight(side))
	}
	if top, _ := h.Top(side); top != wb {
		t.Fatalf("Top(side) = %v, want beetle on top", top)
	}
	if h.IsOnTop(bq) {
		t.Fatal("queen should be buried")
	}

	if err := h.Undo(1); err != nil {
		t.Fatal(err)
	}
	if h.StackHeight(side) != 1 {
		t.Fatalf("StackHeight(side) after undo = %d, want 1", h.StackHeight(side))
	}
	if top, _ := h.Top(side); top != bq {
		t.Fatalf("Top(side) after undo = %v, want queen", top)
	}
}

func TestExpansionPiecesOnlyInHandWhenRequested(t *testing.T) {
	base := New()
	if len(base.InHand(White)) != 11 {
		t.Fatalf("base game hand size = %d, want 11", len(base.InHand(White)))
	}

	extended := New(Mosquito, Ladybug, Pillbug)
	if len(extended.InHand(White)) != 14 {
		t.Fatalf("extended game hand size = %d, want 14", len(extended.InHand(White)))
	}
}
