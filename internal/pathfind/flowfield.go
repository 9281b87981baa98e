package pathfind

import "github.com/samdwyer/tilenav/internal/world"

// Grid is a bounded Walkability. Flow fields need the dimensions to size
// their distance table.
type Grid interface {
	Walkability
	Width() int
	Height() int
}

// unreachable marks tiles with no entry in a flow field.
const unreachable = -1

// FlowField maps every tile reachable from Target to its step distance.
// It is a snapshot: later grid changes do not affect it.
type FlowField struct {
	Target    world.Point
	width     int
	height    int
	distances []int // y*width+x, unreachable if no entry
	reachable int
}

// BuildFlowField propagates step distances outward from target over walkable
// tiles. An unwalkable target yields an empty field.
func BuildFlowField(g Grid, target world.Point) *FlowField {
	w, h := g.Width(), g.Height()
	f := &FlowField{
		Target:    target,
		width:     w,
		height:    h,
		distances: make([]int, w*h),
	}
	for i := range f.distances {
		f.distances[i] = unreachable
	}
	if !g.IsWalkable(target.X, target.Y) {
		return f
	}

	// Unit costs make a FIFO frontier equivalent to Dijkstra.
	f.distances[target.Y*w+target.X] = 0
	f.reachable = 1
	queue := []world.Point{target}
	for head := 0; head < len(queue); head++ {
		current := queue[head]
		dist := f.distances[current.Y*w+current.X]
		for _, d := range world.Cardinal {
			next := current.Add(d)
			if !g.IsWalkable(next.X, next.Y) {
				continue
			}
			idx := next.Y*w + next.X
			if f.distances[idx] != unreachable {
				continue
			}
			f.distances[idx] = dist + 1
			f.reachable++
			queue = append(queue, next)
		}
	}
	return f
}

// Distance returns the recorded distance to Target, false if p has no entry.
func (f *FlowField) Distance(p world.Point) (int, bool) {
	if f == nil || p.X < 0 || p.Y < 0 || p.X >= f.width || p.Y >= f.height {
		return 0, false
	}
	d := f.distances[p.Y*f.width+p.X]
	if d == unreachable {
		return 0, false
	}
	return d, true
}

// ReachableCount returns the number of tiles with an entry, Target included.
func (f *FlowField) ReachableCount() int {
	if f == nil {
		return 0
	}
	return f.reachable
}

// NextFlowStep returns the neighbour of pos with the smallest distance, ties
// going to the first in N, E, S, W order. It returns false when pos has no
// entry or is the target.
func NextFlowStep(f *FlowField, pos world.Point) (world.Point, bool) {
	dist, ok := f.Distance(pos)
	if !ok || dist == 0 {
		return world.Point{}, false
	}
	var best world.Point
	bestDist := dist
	found := false
	for _, d := range world.Cardinal {
		next := pos.Add(d)
		nd, ok := f.Distance(next)
		if !ok || nd >= bestDist {
			continue
		}
		best, bestDist, found = next, nd, true
	}
	return best, found
}

// Trace follows NextFlowStep from `from` and returns the tiles visited,
// excluding `from`. It stops at the target or after limit steps; limit <= 0
// means no limit beyond the field size.
func (f *FlowField) Trace(from world.Point, limit int) []world.Point {
	if limit <= 0 {
		limit = f.ReachableCount()
	}
	var out []world.Point
	current := from
	for len(out) < limit {
		next, ok := NextFlowStep(f, current)
		if !ok {
			break
		}
		out = append(out, next)
		current = next
	}
	return out
}
