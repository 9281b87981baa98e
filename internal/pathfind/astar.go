// Package pathfind implements deterministic 4-directional grid search: A*
// for single paths and breadth-first flow fields for shared destinations.
//
// Both searches expand neighbours in the fixed N, E, S, W order of
// world.Cardinal. A* additionally breaks f-score ties by insertion order, so
// the path chosen among several optimal ones is identical across runs.
package pathfind

import (
	"container/heap"

	"github.com/samdwyer/tilenav/internal/world"
)

// Walkability is the grid query both searches run against.
// *world.Model satisfies it.
type Walkability interface {
	IsWalkable(x, y int) bool
}

// PathResult is the outcome of a FindPath call. Cost counts unit steps.
type PathResult struct {
	Found bool
	Nodes []world.Point
	Cost  int
}

// Steps returns the nodes after the start, the waypoints an agent still has
// to visit.
func (r PathResult) Steps() []world.Point {
	if len(r.Nodes) <= 1 {
		return nil
	}
	return r.Nodes[1:]
}

// FindPath runs A* from start to goal. Both endpoints must be walkable.
func FindPath(g Walkability, start, goal world.Point) PathResult {
	if !g.IsWalkable(start.X, start.Y) || !g.IsWalkable(goal.X, goal.Y) {
		return PathResult{Nodes: []world.Point{}}
	}
	if start == goal {
		return PathResult{Found: true, Nodes: []world.Point{start}}
	}

	var seq uint64
	open := &openQueue{}
	heap.Init(open)
	heap.Push(open, &openNode{point: start, f: start.Manhattan(goal), seq: seq})
	gScore := map[world.Point]int{start: 0}
	closed := make(map[world.Point]struct{})

	for open.Len() > 0 {
		current := heap.Pop(open).(*openNode)
		if _, seen := closed[current.point]; seen {
			continue
		}
		closed[current.point] = struct{}{}
		if current.point == goal {
			nodes := reconstructPath(current)
			return PathResult{Found: true, Nodes: nodes, Cost: current.g}
		}

		for _, d := range world.Cardinal {
			next := current.point.Add(d)
			if !g.IsWalkable(next.X, next.Y) {
				continue
			}
			if _, seen := closed[next]; seen {
				continue
			}
			tentativeG := current.g + 1
			if prev, ok := gScore[next]; ok && tentativeG >= prev {
				continue
			}
			gScore[next] = tentativeG
			seq++
			heap.Push(open, &openNode{
				point:  next,
				g:      tentativeG,
				f:      tentativeG + next.Manhattan(goal),
				seq:    seq,
				parent: current,
			})
		}
	}
	return PathResult{Nodes: []world.Point{}}
}

func reconstructPath(end *openNode) []world.Point {
	path := make([]world.Point, 0, end.g+1)
	for node := end; node != nil; node = node.parent {
		path = append(path, node.point)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
