package world

import (
	"errors"
	"testing"
)

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name  string
		grid  Grid
		valid bool
	}{
		{"ok", NewGrid(3, 2, TileFloor), true},
		{"zero width", Grid{Width: 0, Height: 1, Tiles: [][]int{{}}}, false},
		{"missing row", Grid{Width: 2, Height: 2, Tiles: [][]int{{0, 0}}}, false},
		{"short row", Grid{Width: 2, Height: 2, Tiles: [][]int{{0, 0}, {0}}}, false},
		{"long row", Grid{Width: 2, Height: 1, Tiles: [][]int{{0, 0, 0}}}, false},
	}

	for _, tt := range tests {
		err := tt.grid.Validate()
		if tt.valid && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
		if !tt.valid {
			if err == nil {
				t.Errorf("%s: expected error", tt.name)
			} else if !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("%s: error %v does not wrap ErrInvalidGrid", tt.name, err)
			}
		}
	}
}

func TestModelSetGridRejectsMalformedAndKeepsState(t *testing.T) {
	m := NewModel()
	if err := m.SetGrid(NewGrid(3, 3, TileFloor)); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}
	m.SetDynamicBlocker(1, 1, true)

	bad := Grid{Width: 4, Height: 3, Tiles: NewGrid(3, 3, TileFloor).Tiles}
	if err := m.SetGrid(bad); err == nil {
		t.Fatal("Expected malformed grid to be rejected")
	}

	if m.Width() != 3 || m.Height() != 3 {
		t.Errorf("Dimensions changed to %dx%d", m.Width(), m.Height())
	}
	if !m.IsBlocked(1, 1) {
		t.Error("Blocker lost after rejected SetGrid")
	}
}

func TestModelSetGridCopiesTilesAndClearsBlockers(t *testing.T) {
	g := NewGrid(2, 2, TileFloor)
	m := NewModel()
	if err := m.SetGrid(g); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}
	m.SetDynamicBlocker(0, 0, true)

	g.Tiles[1][1] = TileWall
	if !m.IsWalkable(1, 1) {
		t.Error("Model aliased caller's tile matrix")
	}

	if err := m.SetGrid(NewGrid(2, 2, TileFloor)); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}
	if m.BlockedCount() != 0 {
		t.Errorf("Expected blockers cleared, got %d", m.BlockedCount())
	}
}

func TestModelWalkability(t *testing.T) {
	m := NewModel()
	if m.IsWalkable(0, 0) {
		t.Error("Empty model reports walkable tile")
	}

	g := Grid{Width: 3, Height: 1, Tiles: [][]int{{TileFloor, TileWall, TileWater}}}
	if err := m.SetGrid(g); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}

	if !m.IsWalkable(0, 0) || m.IsWalkable(1, 0) || m.IsWalkable(2, 0) {
		t.Error("Default walkable set should be {0}")
	}

	m.SetWalkableTileValues(TileFloor, TileWater)
	if !m.IsWalkable(2, 0) {
		t.Error("Water should be walkable after SetWalkableTileValues")
	}

	for _, p := range []Point{{-1, 0}, {3, 0}, {0, -1}, {0, 1}} {
		if m.IsWalkable(p.X, p.Y) {
			t.Errorf("Out of bounds %v reported walkable", p)
		}
	}
}

func TestModelDynamicBlockers(t *testing.T) {
	m := NewModel()
	if err := m.SetGrid(NewGrid(3, 3, TileFloor)); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}

	if m.SetDynamicBlocker(3, 0, true) {
		t.Error("Out of bounds blocker accepted")
	}
	if !m.SetDynamicBlocker(1, 1, true) || !m.SetDynamicBlocker(1, 1, true) {
		t.Error("In bounds blocker rejected")
	}
	if m.BlockedCount() != 1 {
		t.Errorf("Expected idempotent blocker, count %d", m.BlockedCount())
	}
	if m.IsWalkable(1, 1) {
		t.Error("Blocked tile reported walkable")
	}

	m.SetDynamicBlocker(2, 0, true)
	m.SetDynamicBlocker(0, 2, true)
	got := m.Blockers()
	want := []Point{{2, 0}, {1, 1}, {0, 2}}
	if len(got) != len(want) {
		t.Fatalf("Blockers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Blockers()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if !m.SetDynamicBlocker(1, 1, false) || m.IsBlocked(1, 1) {
		t.Error("Failed to clear single blocker")
	}

	m.ClearDynamicBlockers()
	if m.BlockedCount() != 0 {
		t.Errorf("Expected no blockers, got %d", m.BlockedCount())
	}
}

func TestModelClosestWalkable(t *testing.T) {
	m := NewModel()
	g := Grid{Width: 4, Height: 3, Tiles: [][]int{
		{1, 1, 1, 0},
		{1, 1, 1, 1},
		{0, 1, 1, 1},
	}}
	if err := m.SetGrid(g); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}

	got, ok := m.ClosestWalkable(Point{X: 1, Y: 1})
	if !ok || got != (Point{X: 0, Y: 2}) {
		t.Errorf("ClosestWalkable = %v, %v; want (0,2)", got, ok)
	}

	got, ok = m.ClosestWalkable(Point{X: 3, Y: 0})
	if !ok || got != (Point{X: 3, Y: 0}) {
		t.Errorf("Walkable start should return itself, got %v", got)
	}

	if _, ok := m.ClosestWalkable(Point{X: 9, Y: 9}); ok {
		t.Error("Out of bounds start should fail")
	}
}
