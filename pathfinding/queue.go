package pathfinding

import "gridpath-server/grid"

// SearchNode is one grid position reached through one particular path.
// Nodes live in an arena and refer to their predecessor by arena index, so
// the parent chain is a tree of handles rather than pointers.
type SearchNode struct {
	Pos    grid.Position
	G      float64 // accumulated entry cost from the start
	H      float64 // heuristic estimate to the goal
	F      float64 // G + H, fixed at creation
	Parent int     // arena index of the predecessor, -1 for the start node
}

// queueItem is a frontier entry. Entries are never updated in place; a better
// path to a position is pushed as a new entry and stale ones are dropped when
// popped.
type queueItem struct {
	node int
	f    float64
	seq  uint64
}

// PriorityQueue implements heap.Interface ordered by ascending F. Equal F
// values pop in insertion order.
type PriorityQueue []queueItem

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *PriorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}
