package world

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidGrid is returned by SetGrid when the tile matrix does not match
// the declared dimensions.
var ErrInvalidGrid = errors.New("invalid grid")

// Grid is a row-major tile matrix, Tiles[y][x].
type Grid struct {
	Width  int
	Height int
	Tiles  [][]int
}

// Validate checks that the matrix dimensions match Width and Height.
func (g Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidGrid, g.Width, g.Height)
	}
	if len(g.Tiles) != g.Height {
		return fmt.Errorf("%w: %d rows, want %d", ErrInvalidGrid, len(g.Tiles), g.Height)
	}
	for y, row := range g.Tiles {
		if len(row) != g.Width {
			return fmt.Errorf("%w: row %d has %d tiles, want %d", ErrInvalidGrid, y, len(row), g.Width)
		}
	}
	return nil
}

// NewGrid creates a grid of the given size filled with code.
func NewGrid(width, height, code int) Grid {
	tiles := make([][]int, height)
	for y := range tiles {
		tiles[y] = make([]int, width)
		for x := range tiles[y] {
			tiles[y][x] = code
		}
	}
	return Grid{Width: width, Height: height, Tiles: tiles}
}

// Model owns the terrain grid, the walkable code set, and the dynamic
// blocker overlay. The zero value is not usable; call NewModel.
type Model struct {
	width, height int
	tiles         []int // flat, y*width+x
	walkable      map[int]struct{}
	blocked       map[Point]struct{}
}

// NewModel creates an empty model. Until SetGrid succeeds every tile is out
// of bounds. The walkable set defaults to {TileFloor}.
func NewModel() *Model {
	return &Model{
		walkable: map[int]struct{}{TileFloor: {}},
		blocked:  make(map[Point]struct{}),
	}
}

// SetGrid replaces the grid and clears every dynamic blocker. A malformed
// grid leaves the model untouched.
func (m *Model) SetGrid(g Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	tiles := make([]int, 0, g.Width*g.Height)
	for _, row := range g.Tiles {
		tiles = append(tiles, row...)
	}
	m.width = g.Width
	m.height = g.Height
	m.tiles = tiles
	m.blocked = make(map[Point]struct{})
	return nil
}

// SetWalkableTileValues replaces the set of passable terrain codes.
func (m *Model) SetWalkableTileValues(values ...int) {
	walkable := make(map[int]struct{}, len(values))
	for _, v := range values {
		walkable[v] = struct{}{}
	}
	m.walkable = walkable
}

// Width returns the grid width in tiles.
func (m *Model) Width() int { return m.width }

// Height returns the grid height in tiles.
func (m *Model) Height() int { return m.height }

// InBounds reports whether (x, y) lies on the grid.
func (m *Model) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// TileAt returns the terrain code at (x, y).
func (m *Model) TileAt(x, y int) (int, bool) {
	if !m.InBounds(x, y) {
		return 0, false
	}
	return m.tiles[y*m.width+x], true
}

// IsWalkable reports whether (x, y) is in bounds, has walkable terrain, and
// carries no dynamic blocker.
func (m *Model) IsWalkable(x, y int) bool {
	code, ok := m.TileAt(x, y)
	if !ok {
		return false
	}
	if _, walkable := m.walkable[code]; !walkable {
		return false
	}
	_, blocked := m.blocked[Point{X: x, Y: y}]
	return !blocked
}

// SetDynamicBlocker sets or clears the runtime blocker at (x, y). It returns
// false without changing anything when the tile is out of bounds.
func (m *Model) SetDynamicBlocker(x, y int, blocked bool) bool {
	if !m.InBounds(x, y) {
		return false
	}
	p := Point{X: x, Y: y}
	if blocked {
		m.blocked[p] = struct{}{}
	} else {
		delete(m.blocked, p)
	}
	return true
}

// ClearDynamicBlockers removes every runtime blocker.
func (m *Model) ClearDynamicBlockers() {
	clear(m.blocked)
}

// IsBlocked reports whether (x, y) carries a dynamic blocker.
func (m *Model) IsBlocked(x, y int) bool {
	_, ok := m.blocked[Point{X: x, Y: y}]
	return ok
}

// BlockedCount returns the number of dynamic blockers.
func (m *Model) BlockedCount() int {
	return len(m.blocked)
}

// Blockers returns the dynamic blockers in row-major order.
func (m *Model) Blockers() []Point {
	out := make([]Point, 0, len(m.blocked))
	for p := range m.blocked {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// ClosestWalkable searches outward from p in N, E, S, W order and returns
// the first walkable tile. Walls are crossed while searching, so the result
// may lie in a region disconnected from p.
func (m *Model) ClosestWalkable(p Point) (Point, bool) {
	if !m.InBounds(p.X, p.Y) {
		return Point{}, false
	}
	visited := make([]bool, m.width*m.height)
	visited[p.Y*m.width+p.X] = true
	queue := []Point{p}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if m.IsWalkable(current.X, current.Y) {
			return current, true
		}
		for _, d := range Cardinal {
			n := current.Add(d)
			if !m.InBounds(n.X, n.Y) {
				continue
			}
			idx := n.Y*m.width + n.X
			if visited[idx] {
				continue
			}
			visited[idx] = true
			queue = append(queue, n)
		}
	}
	return Point{}, false
}
