// Package grid holds the weighted 2-D cost grid that searches run over and
// the parallel display layer that the simulation and renderers annotate.
package grid

import (
	"errors"
	"fmt"
)

// Blocked is the cost value of an impassable cell.
const Blocked = -1

var (
	// ErrOutOfBounds is returned when a position lies outside the grid extent.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrInvalidPosition is returned when a start or goal lies on an impassable cell.
	ErrInvalidPosition = errors.New("position is impassable")
)

// Position is a row/column cell coordinate.
type Position struct {
	Row int `json:"row" bson:"row"`
	Col int `json:"col" bson:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Grid is a rectangular cost layer plus a display layer of the same shape.
// The cost layer is fixed after construction; only the display layer mutates.
type Grid struct {
	width   int
	height  int
	cost    [][]float64
	display [][]Symbol
}

// New builds a grid from a cost matrix indexed [row][col]. The matrix is
// copied. Rows must be non-empty and of equal length, and every value must be
// Blocked or non-negative.
func New(cost [][]float64) (*Grid, error) {
	if len(cost) == 0 || len(cost[0]) == 0 {
		return nil, errors.New("grid: empty cost matrix")
	}
	g := &Grid{
		width:   len(cost[0]),
		height:  len(cost),
		cost:    make([][]float64, len(cost)),
		display: make([][]Symbol, len(cost)),
	}
	for y, row := range cost {
		if len(row) != g.width {
			return nil, fmt.Errorf("grid: row %d has %d cells, want %d", y, len(row), g.width)
		}
		g.cost[y] = make([]float64, g.width)
		g.display[y] = make([]Symbol, g.width)
		for x, c := range row {
			if c < 0 && c != Blocked {
				return nil, fmt.Errorf("grid: negative cost %v at (%d,%d)", c, y, x)
			}
			g.cost[y][x] = c
			g.display[y][x] = SymbolForCost(c)
		}
	}
	return g, nil
}

// Width is the number of columns.
func (g *Grid) Width() int { return g.width }

// Height is the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies inside [0,height)x[0,width).
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.height && p.Col >= 0 && p.Col < g.width
}

func (g *Grid) check(p Position) error {
	if !g.InBounds(p) {
		return fmt.Errorf("%w: %v in %dx%d grid", ErrOutOfBounds, p, g.height, g.width)
	}
	return nil
}

// CostAt returns the cost of entering p.
func (g *Grid) CostAt(p Position) (float64, error) {
	if err := g.check(p); err != nil {
		return 0, err
	}
	return g.cost[p.Row][p.Col], nil
}

// IsBlocked reports whether p is impassable.
func (g *Grid) IsBlocked(p Position) (bool, error) {
	c, err := g.CostAt(p)
	if err != nil {
		return false, err
	}
	return c == Blocked, nil
}

// DisplayAt returns the display symbol at p.
func (g *Grid) DisplayAt(p Position) (Symbol, error) {
	if err := g.check(p); err != nil {
		return SymbolEmpty, err
	}
	return g.display[p.Row][p.Col], nil
}

// SetDisplay overwrites the display symbol at p.
func (g *Grid) SetDisplay(p Position, s Symbol) error {
	if err := g.check(p); err != nil {
		return err
	}
	g.display[p.Row][p.Col] = s
	return nil
}

// Validate checks that p can serve as a search start or goal: it must be in
// bounds and must not be impassable.
func (g *Grid) Validate(p Position) error {
	blocked, err := g.IsBlocked(p)
	if err != nil {
		return err
	}
	if blocked {
		return fmt.Errorf("%w: %v", ErrInvalidPosition, p)
	}
	return nil
}

// Costs returns a copy of the cost layer.
func (g *Grid) Costs() [][]float64 {
	out := make([][]float64, g.height)
	for y := range g.cost {
		out[y] = append([]float64(nil), g.cost[y]...)
	}
	return out
}

// Snapshot returns a copy of the display layer indexed [row][col].
func (g *Grid) Snapshot() [][]Symbol {
	out := make([][]Symbol, g.height)
	for y := range g.display {
		out[y] = append([]Symbol(nil), g.display[y]...)
	}
	return out
}
