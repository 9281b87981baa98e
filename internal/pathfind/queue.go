package pathfind

import "github.com/samdwyer/tilenav/internal/world"

// openNode is an entry in the A* open set. A tile may be pushed more than
// once when a cheaper route is found; stale entries are skipped on pop via
// the closed set.
type openNode struct {
	point  world.Point
	g      int
	f      int
	seq    uint64 // insertion order, breaks ties among equal f
	index  int
	parent *openNode
}

// openQueue is a container/heap min-heap ordered by f, then insertion order.
type openQueue []*openNode

func (q openQueue) Len() int { return len(q) }

func (q openQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openQueue) Push(x any) {
	item := x.(*openNode)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *openQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}
