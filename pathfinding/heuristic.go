package pathfinding

import "gridpath-server/grid"

// Heuristic estimates the remaining cost from a position to the goal.
type Heuristic func(from, to grid.Position) float64

// SquaredEuclidean is (Δrow)² + (Δcol)². It overestimates on most grids, which
// makes the search a weighted best-first search that favours heading straight
// for the goal over finding the cheapest route.
func SquaredEuclidean(from, to grid.Position) float64 {
	dr := float64(from.Row - to.Row)
	dc := float64(from.Col - to.Col)
	return dr*dr + dc*dc
}

// Manhattan is |Δrow| + |Δcol|, admissible for 4-neighbour movement when every
// cell costs at least 1.
func Manhattan(from, to grid.Position) float64 {
	dr := from.Row - to.Row
	if dr < 0 {
		dr = -dr
	}
	dc := from.Col - to.Col
	if dc < 0 {
		dc = -dc
	}
	return float64(dr + dc)
}

// HeuristicByName resolves "squared_euclidean" (or "") and "manhattan".
func HeuristicByName(name string) (Heuristic, bool) {
	switch name {
	case "", "squared_euclidean":
		return SquaredEuclidean, true
	case "manhattan":
		return Manhattan, true
	}
	return nil, false
}
