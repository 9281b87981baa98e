package pathfind

import (
	"testing"

	"github.com/samdwyer/tilenav/internal/world"
)

func TestBuildFlowFieldDistances(t *testing.T) {
	m := newModel(t,
		"......",
		".####.",
		"......",
		"......",
	)
	target := pt(5, 0)
	field := BuildFlowField(m, target)

	if field.Target != target {
		t.Errorf("Target = %v", field.Target)
	}
	// 24 tiles minus 4 walls
	if got := field.ReachableCount(); got != 20 {
		t.Errorf("ReachableCount = %d, want 20", got)
	}

	tests := []struct {
		p    world.Point
		want int
	}{
		{pt(5, 0), 0},
		{pt(5, 1), 1},
		{pt(0, 0), 5},
		{pt(0, 1), 6},
		{pt(2, 2), 5},
		{pt(0, 3), 8},
	}
	for _, tt := range tests {
		got, ok := field.Distance(tt.p)
		if !ok || got != tt.want {
			t.Errorf("Distance(%v) = %d, %v; want %d", tt.p, got, ok, tt.want)
		}
	}

	if _, ok := field.Distance(pt(2, 1)); ok {
		t.Error("Wall tile has a distance entry")
	}
	if _, ok := field.Distance(pt(6, 0)); ok {
		t.Error("Out of bounds tile has a distance entry")
	}
}

func TestNextFlowStepRoutesAroundWall(t *testing.T) {
	m := newModel(t,
		"......",
		".####.",
		"......",
		"......",
	)
	field := BuildFlowField(m, pt(5, 0))

	tests := []struct {
		from, want world.Point
	}{
		{pt(2, 2), pt(3, 2)},
		{pt(1, 2), pt(2, 2)},
		{pt(5, 2), pt(5, 1)},
		{pt(4, 0), pt(5, 0)},
		// (0,1) ties nothing: only N leads downhill
		{pt(0, 1), pt(0, 0)},
	}
	for _, tt := range tests {
		got, ok := NextFlowStep(field, tt.from)
		if !ok || got != tt.want {
			t.Errorf("NextFlowStep(%v) = %v, %v; want %v", tt.from, got, ok, tt.want)
		}
	}

	if _, ok := NextFlowStep(field, pt(5, 0)); ok {
		t.Error("Target should have no next step")
	}
	if _, ok := NextFlowStep(field, pt(1, 1)); ok {
		t.Error("Wall tile should have no next step")
	}
}

func TestNextFlowStepTieBreakOrder(t *testing.T) {
	m := newModel(t,
		"...",
		"...",
		"...",
	)
	field := BuildFlowField(m, pt(0, 0))

	// (1,1) has N (1,0) and W (0,1) both at distance 1; N wins.
	got, ok := NextFlowStep(field, pt(1, 1))
	if !ok || got != pt(1, 0) {
		t.Errorf("NextFlowStep((1,1)) = %v, want N neighbour (1,0)", got)
	}

	field = BuildFlowField(m, pt(2, 2))
	// (1,1) has E (2,1) and S (1,2) both at distance 1; E wins.
	got, ok = NextFlowStep(field, pt(1, 1))
	if !ok || got != pt(2, 1) {
		t.Errorf("NextFlowStep((1,1)) = %v, want E neighbour (2,1)", got)
	}
}

func TestNextFlowStepEnclosedTile(t *testing.T) {
	m := newModel(t,
		"......",
		".####.",
		"......",
		"......",
	)
	m.SetDynamicBlocker(0, 2, true)
	m.SetDynamicBlocker(1, 3, true)
	field := BuildFlowField(m, pt(5, 0))

	if _, ok := NextFlowStep(field, pt(0, 3)); ok {
		t.Error("Enclosed tile should have no next step")
	}
	if _, ok := field.Distance(pt(0, 3)); ok {
		t.Error("Enclosed tile should have no entry")
	}
}

func TestFlowWalkDecreasesByOne(t *testing.T) {
	m := newModel(t,
		"..........",
		".######.#.",
		".#......#.",
		".#.####.#.",
		"...#......",
	)
	target := pt(4, 2)
	field := BuildFlowField(m, target)

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			current := pt(x, y)
			dist, ok := field.Distance(current)
			if !ok {
				if _, step := NextFlowStep(field, current); step {
					t.Errorf("%v has no entry but yields a step", current)
				}
				continue
			}
			for dist > 0 {
				next, ok := NextFlowStep(field, current)
				if !ok {
					t.Fatalf("walk from (%d,%d) stalled at %v", x, y, current)
				}
				nd, _ := field.Distance(next)
				if nd != dist-1 {
					t.Fatalf("walk from (%d,%d): %v(%d) -> %v(%d)", x, y, current, dist, next, nd)
				}
				current, dist = next, nd
			}
			if current != target {
				t.Errorf("walk from (%d,%d) ended at %v", x, y, current)
			}
		}
	}
}

func TestBuildFlowFieldUnwalkableTarget(t *testing.T) {
	m := newModel(t, ".#.")

	for _, target := range []world.Point{pt(1, 0), pt(-1, 0), pt(3, 0)} {
		field := BuildFlowField(m, target)
		if field.ReachableCount() != 0 {
			t.Errorf("target %v: ReachableCount = %d, want 0", target, field.ReachableCount())
		}
		if _, ok := NextFlowStep(field, pt(0, 0)); ok {
			t.Errorf("target %v: empty field produced a step", target)
		}
	}
}

func TestFlowFieldTrace(t *testing.T) {
	m := newModel(t,
		"#######",
		"#..#..#",
		"#..#..#",
		"#.....#",
		"#######",
	)
	field := BuildFlowField(m, pt(5, 1))

	route := field.Trace(pt(1, 1), 0)
	if len(route) != 8 {
		t.Fatalf("Trace length = %d, want 8: %v", len(route), route)
	}
	if route[len(route)-1] != pt(5, 1) {
		t.Errorf("Trace ends at %v", route[len(route)-1])
	}

	if got := field.Trace(pt(1, 1), 3); len(got) != 3 {
		t.Errorf("limited Trace length = %d, want 3", len(got))
	}
	if got := field.Trace(pt(0, 0), 0); len(got) != 0 {
		t.Errorf("Trace from wall = %v, want empty", got)
	}
}
