// Package entity provides the agents the viewer steers across the grid.
package entity

import (
	"github.com/samdwyer/tilenav/internal/pathfind"
	"github.com/samdwyer/tilenav/internal/world"
)

// Walkable reports whether an agent may enter a tile.
type Walkable func(x, y int) bool

// Agent is a steering consumer of navigation results. It either walks a
// private A* route or descends a shared flow field, one tile per tick.
type Agent struct {
	ID     int
	X, Y   int  // Current tile
	Symbol rune // Display symbol
	route  []world.Point
}

// NewAgent creates an agent at p. Symbols cycle through a..z by ID.
func NewAgent(id int, p world.Point) *Agent {
	return &Agent{
		ID:     id,
		X:      p.X,
		Y:      p.Y,
		Symbol: rune('a' + id%26),
	}
}

// Position returns the current tile.
func (a *Agent) Position() world.Point {
	return world.Point{X: a.X, Y: a.Y}
}

// Move updates the agent position by the given delta.
func (a *Agent) Move(dx, dy int) {
	a.X += dx
	a.Y += dy
}

// SetRoute replaces the pending waypoints with the steps of a path result.
// A failed result clears the route.
func (a *Agent) SetRoute(res pathfind.PathResult) {
	if !res.Found {
		a.route = nil
		return
	}
	a.route = append([]world.Point(nil), res.Steps()...)
}

// Route returns the pending waypoints.
func (a *Agent) Route() []world.Point {
	return a.route
}

// Destination returns the last waypoint, false when idle.
func (a *Agent) Destination() (world.Point, bool) {
	if len(a.route) == 0 {
		return world.Point{}, false
	}
	return a.route[len(a.route)-1], true
}

// StepRoute advances one waypoint. It reports moved=false with
// stalled=true when the next waypoint has become unwalkable since the route
// was planned; the caller decides whether to repath.
func (a *Agent) StepRoute(walkable Walkable) (moved, stalled bool) {
	if len(a.route) == 0 {
		return false, false
	}
	next := a.route[0]
	if !walkable(next.X, next.Y) {
		return false, true
	}
	a.X, a.Y = next.X, next.Y
	a.route = a.route[1:]
	return true, false
}

// StepFlow moves one tile down the flow field. Tiles occupied by a dynamic
// blocker placed after the field was built are treated like any other
// obstruction: the agent waits.
func (a *Agent) StepFlow(field *pathfind.FlowField, walkable Walkable) bool {
	next, ok := pathfind.NextFlowStep(field, a.Position())
	if !ok || !walkable(next.X, next.Y) {
		return false
	}
	a.X, a.Y = next.X, next.Y
	return true
}
