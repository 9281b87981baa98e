package pathfind

import (
	"math/rand"
	"testing"

	"github.com/samdwyer/tilenav/internal/world"
)

// newModel builds a model from ASCII rows: '#' is a wall, anything else floor.
func newModel(t *testing.T, rows ...string) *world.Model {
	t.Helper()
	g := world.Grid{Width: len(rows[0]), Height: len(rows), Tiles: make([][]int, len(rows))}
	for y, row := range rows {
		g.Tiles[y] = make([]int, len(row))
		for x, ch := range row {
			if ch == '#' {
				g.Tiles[y][x] = world.TileWall
			}
		}
	}
	m := world.NewModel()
	if err := m.SetGrid(g); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}
	return m
}

func pt(x, y int) world.Point { return world.Point{X: x, Y: y} }

// checkPath verifies the nodes form a contiguous walkable 4-connected route.
func checkPath(t *testing.T, m *world.Model, res PathResult, start, goal world.Point) {
	t.Helper()
	if len(res.Nodes) != res.Cost+1 {
		t.Fatalf("len(Nodes) = %d, Cost = %d", len(res.Nodes), res.Cost)
	}
	if res.Nodes[0] != start || res.Nodes[len(res.Nodes)-1] != goal {
		t.Fatalf("path runs %v -> %v, want %v -> %v", res.Nodes[0], res.Nodes[len(res.Nodes)-1], start, goal)
	}
	for i, p := range res.Nodes {
		if !m.IsWalkable(p.X, p.Y) {
			t.Errorf("node %d %v is not walkable", i, p)
		}
		if i > 0 && p.Manhattan(res.Nodes[i-1]) != 1 {
			t.Errorf("node %d %v is not adjacent to %v", i, p, res.Nodes[i-1])
		}
	}
}

func TestFindPathCorridorDetour(t *testing.T) {
	m := newModel(t,
		"#######",
		"#..#..#",
		"#..#..#",
		"#.....#",
		"#######",
	)

	res := FindPath(m, pt(1, 1), pt(5, 1))
	if !res.Found {
		t.Fatal("Expected path around the wall")
	}
	if res.Cost != 8 {
		t.Fatalf("Cost = %d, want 8", res.Cost)
	}
	checkPath(t, m, res, pt(1, 1), pt(5, 1))

	want := []world.Point{
		pt(1, 1), pt(2, 1), pt(2, 2), pt(2, 3), pt(3, 3),
		pt(4, 3), pt(4, 2), pt(4, 1), pt(5, 1),
	}
	for i := range want {
		if res.Nodes[i] != want[i] {
			t.Fatalf("Nodes = %v, want %v", res.Nodes, want)
		}
	}
}

func TestFindPathDeterministic(t *testing.T) {
	m := newModel(t,
		"..........",
		"..........",
		"...####...",
		"..........",
		"..........",
	)

	first := FindPath(m, pt(0, 0), pt(9, 4))
	for i := 0; i < 20; i++ {
		again := FindPath(m, pt(0, 0), pt(9, 4))
		if len(again.Nodes) != len(first.Nodes) {
			t.Fatalf("run %d: length %d != %d", i, len(again.Nodes), len(first.Nodes))
		}
		for j := range first.Nodes {
			if again.Nodes[j] != first.Nodes[j] {
				t.Fatalf("run %d: node %d differs: %v != %v", i, j, again.Nodes[j], first.Nodes[j])
			}
		}
	}
}

func TestFindPathSameTile(t *testing.T) {
	m := newModel(t, "...")

	res := FindPath(m, pt(1, 0), pt(1, 0))
	if !res.Found || res.Cost != 0 || len(res.Nodes) != 1 || res.Nodes[0] != pt(1, 0) {
		t.Errorf("FindPath(start, start) = %+v", res)
	}
	if res.Steps() != nil {
		t.Errorf("Steps() = %v, want nil", res.Steps())
	}
}

func TestFindPathPreconditions(t *testing.T) {
	m := newModel(t,
		".#.",
		".#.",
	)

	tests := []struct {
		name        string
		start, goal world.Point
	}{
		{"start wall", pt(1, 0), pt(0, 0)},
		{"goal wall", pt(0, 0), pt(1, 1)},
		{"start out of bounds", pt(-1, 0), pt(0, 1)},
		{"goal out of bounds", pt(0, 0), pt(0, 5)},
		{"disconnected", pt(0, 0), pt(2, 1)},
	}

	for _, tt := range tests {
		res := FindPath(m, tt.start, tt.goal)
		if res.Found || res.Cost != 0 || len(res.Nodes) != 0 {
			t.Errorf("%s: got %+v, want not found", tt.name, res)
		}
		if res.Nodes == nil {
			t.Errorf("%s: Nodes should be empty, not nil", tt.name)
		}
	}
}

func TestFindPathReroutesAroundBlocker(t *testing.T) {
	m := newModel(t,
		".....",
		".....",
		".....",
		".....",
		".....",
	)

	direct := FindPath(m, pt(1, 2), pt(3, 2))
	if direct.Cost != 2 {
		t.Fatalf("Open grid cost = %d, want 2", direct.Cost)
	}

	m.SetDynamicBlocker(2, 2, true)
	res := FindPath(m, pt(1, 2), pt(3, 2))
	if !res.Found || res.Cost != 4 {
		t.Fatalf("Rerouted path = %+v, want cost 4", res)
	}
	checkPath(t, m, res, pt(1, 2), pt(3, 2))
	for _, p := range res.Nodes {
		if p == pt(2, 2) {
			t.Error("Path crosses the blocked tile")
		}
	}

	// Enclose (2,2) and ask for it as the goal
	m.SetDynamicBlocker(2, 2, false)
	for _, p := range []world.Point{pt(2, 1), pt(3, 2), pt(2, 3), pt(1, 2)} {
		m.SetDynamicBlocker(p.X, p.Y, true)
	}
	if res := FindPath(m, pt(0, 0), pt(2, 2)); res.Found {
		t.Errorf("Enclosed target reported reachable: %+v", res)
	}
}

func TestFindPathBlockerOnOnlyRoute(t *testing.T) {
	m := newModel(t,
		"..#..",
		".....",
		"..#..",
	)

	if res := FindPath(m, pt(0, 0), pt(4, 0)); !res.Found {
		t.Fatal("Expected initial path through the gap")
	}

	m.SetDynamicBlocker(2, 1, true)
	if res := FindPath(m, pt(0, 0), pt(4, 0)); res.Found {
		t.Fatal("Blocking the gap should cut the route")
	}

	m.ClearDynamicBlockers()
	if res := FindPath(m, pt(0, 0), pt(4, 0)); !res.Found || res.Cost != 6 {
		t.Fatalf("Clearing blockers should restore the route, got %+v", res)
	}
}

// A* cost must match the breadth-first distance on arbitrary terrain.
func TestFindPathOptimalAgainstFlowField(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 25; trial++ {
		const w, h = 14, 10
		g := world.NewGrid(w, h, world.TileFloor)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if rng.Intn(100) < 30 {
					g.Tiles[y][x] = world.TileWall
				}
			}
		}
		m := world.NewModel()
		if err := m.SetGrid(g); err != nil {
			t.Fatalf("SetGrid: %v", err)
		}

		start := pt(rng.Intn(w), rng.Intn(h))
		goal := pt(rng.Intn(w), rng.Intn(h))
		if !m.IsWalkable(start.X, start.Y) || !m.IsWalkable(goal.X, goal.Y) {
			continue
		}

		field := BuildFlowField(m, goal)
		want, reachable := field.Distance(start)
		res := FindPath(m, start, goal)

		if res.Found != reachable {
			t.Fatalf("trial %d: Found = %v, flow field reachable = %v", trial, res.Found, reachable)
		}
		if !reachable {
			continue
		}
		if res.Cost != want {
			t.Fatalf("trial %d: A* cost %d, BFS distance %d", trial, res.Cost, want)
		}
		checkPath(t, m, res, start, goal)
	}
}
