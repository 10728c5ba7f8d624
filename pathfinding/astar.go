package pathfinding

import (
	"container/heap" // Standard library for priority queue (heap)
	"log"

	"gridpath-server/grid"
)

// DefaultMaxExpansions bounds the number of frontier pops per search.
const DefaultMaxExpansions = 50000

// Options configures FindPath.
type Options struct {
	AllowDiagonal bool
	MaxExpansions int
	Heuristic     Heuristic
}

// Option modifies Options.
type Option func(*Options)

// WithDiagonal enables 8-neighbour movement.
func WithDiagonal(allow bool) Option {
	return func(o *Options) { o.AllowDiagonal = allow }
}

// WithMaxExpansions caps the number of frontier pops. Negative values are
// treated as zero.
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.MaxExpansions = n
	}
}

// WithHeuristic replaces the default SquaredEuclidean estimate.
func WithHeuristic(h Heuristic) Option {
	return func(o *Options) {
		if h != nil {
			o.Heuristic = h
		}
	}
}

type direction struct{ dr, dc int }

// Cardinal moves, in the order they are generated.
var cardinal = []direction{
	{0, -1}, // Left
	{0, 1},  // Right
	{-1, 0}, // Up
	{1, 0},  // Down
}

var diagonal = []direction{
	{-1, -1}, // Up-Left
	{-1, 1},  // Up-Right
	{1, -1},  // Down-Left
	{1, 1},   // Down-Right
}

// search is the per-call state of one FindPath run.
type search struct {
	grid      *grid.Grid
	goal      grid.Position
	heuristic Heuristic
	dirs      []direction

	nodes    []SearchNode
	frontier PriorityQueue
	seq      uint64
	visited  map[grid.Position]bool
	// bestQueued holds the lowest G ever pushed per position. A candidate
	// that cannot beat it is already covered by a live or expanded entry.
	bestQueued map[grid.Position]float64
}

func (s *search) push(pos grid.Position, g float64, parent int) int {
	h := s.heuristic(pos, s.goal)
	s.nodes = append(s.nodes, SearchNode{Pos: pos, G: g, H: h, F: g + h, Parent: parent})
	idx := len(s.nodes) - 1
	heap.Push(&s.frontier, queueItem{node: idx, f: g + h, seq: s.seq})
	s.seq++
	s.bestQueued[pos] = g
	return idx
}

// path walks parent handles back from idx and returns the positions start first.
func (s *search) path(idx int) []grid.Position {
	var out []grid.Position
	for i := idx; i >= 0; i = s.nodes[i].Parent {
		out = append(out, s.nodes[i].Pos)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// FindPath runs a best-first search from start to goal over g. Each step into
// a cell costs that cell's value; impassable cells are never entered.
//
// Start and goal must be in bounds (grid.ErrOutOfBounds) and passable
// (grid.ErrInvalidPosition). Failing to reach the goal is not an error: the
// Result is NotFound when the frontier empties and Partial when the expansion
// cap is hit.
func FindPath(g *grid.Grid, start, goal grid.Position, options ...Option) (Result, error) {
	opts := Options{
		MaxExpansions: DefaultMaxExpansions,
		Heuristic:     SquaredEuclidean,
	}
	for _, option := range options {
		option(&opts)
	}

	if err := g.Validate(start); err != nil {
		return Result{}, err
	}
	if err := g.Validate(goal); err != nil {
		return Result{}, err
	}
	if start == goal {
		return Result{Status: Complete, Path: []grid.Position{start}}, nil
	}

	s := &search{
		grid:       g,
		goal:       goal,
		heuristic:  opts.Heuristic,
		dirs:       cardinal,
		visited:    make(map[grid.Position]bool),
		bestQueued: make(map[grid.Position]float64),
	}
	if opts.AllowDiagonal {
		s.dirs = append(append([]direction(nil), cardinal...), diagonal...)
	}
	heap.Init(&s.frontier)
	current := s.push(start, 0, -1)

	iterations := 0
	for s.frontier.Len() > 0 {
		iterations++
		if iterations > opts.MaxExpansions {
			log.Printf("WARNING: Pathfinding from %v to %v gave up after %d iterations; returning partial path.", start, goal, opts.MaxExpansions)
			return Result{
				Status:   Partial,
				Path:     s.path(current),
				Cost:     s.nodes[current].G,
				Expanded: len(s.visited),
			}, nil
		}

		current = heap.Pop(&s.frontier).(queueItem).node
		node := s.nodes[current]

		if node.Pos == goal {
			return Result{
				Status:   Complete,
				Path:     s.path(current),
				Cost:     node.G,
				Expanded: len(s.visited),
			}, nil
		}

		// Stale duplicate of an already expanded position.
		if s.visited[node.Pos] {
			continue
		}
		s.visited[node.Pos] = true

		for _, d := range s.dirs {
			next := grid.Position{Row: node.Pos.Row + d.dr, Col: node.Pos.Col + d.dc}
			if !g.InBounds(next) || s.visited[next] {
				continue
			}
			cost, _ := g.CostAt(next)
			if cost == grid.Blocked {
				continue
			}
			tentativeG := node.G + cost
			if best, ok := s.bestQueued[next]; ok && best <= tentativeG {
				continue
			}
			s.push(next, tentativeG, current)
		}
	}

	log.Printf("WARNING: Pathfinding found no path from %v to %v.", start, goal)
	return Result{Status: NotFound, Expanded: len(s.visited)}, nil
}
