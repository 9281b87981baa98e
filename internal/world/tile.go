// Package world provides the navigation grid model, world/tile coordinate
// mapping, and a BSP dungeon generator used as a terrain source.
package world

// Terrain codes produced by GenerateDungeon. The grid model itself treats
// codes as opaque integers and consults its walkable set.
const (
	// TileFloor is the default walkable terrain code.
	TileFloor = 0
	// TileWall is an impassable wall.
	TileWall = 1
	// TileWater is impassable unless a level adds it to the walkable set.
	TileWater = 2
)

// Point is a discrete tile coordinate.
type Point struct {
	X, Y int
}

// Add returns the point offset by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Manhattan returns the 4-directional distance between p and o.
func (p Point) Manhattan(o Point) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// Vec2 is a continuous world-space coordinate.
type Vec2 struct {
	X, Y float64
}

// Cardinal holds the unit offsets in the fixed N, E, S, W order used by
// every search and lookup in this module.
var Cardinal = [4]Point{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
