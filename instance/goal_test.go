package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridpath-server/grid"
)

func newGrid(t *testing.T, cost [][]float64) *grid.Grid {
	t.Helper()
	g, err := grid.New(cost)
	require.NoError(t, err)
	return g
}

func displayAt(t *testing.T, g *grid.Grid, p grid.Position) grid.Symbol {
	t.Helper()
	s, err := g.DisplayAt(p)
	require.NoError(t, err)
	return s
}

func countGoals(g *grid.Grid) int {
	n := 0
	for _, row := range g.Snapshot() {
		for _, s := range row {
			if s == grid.SymbolGoal {
				n++
			}
		}
	}
	return n
}

func TestGoalController_RelocatesOnFourthTick(t *testing.T) {
	g := newGrid(t, [][]float64{
		{2, 3},
		{1, 4},
	})
	goal := grid.Position{Row: 0, Col: 0}
	final := grid.Position{Row: 1, Col: 1}

	c, err := NewGoalController(g, goal, &final)
	require.NoError(t, err)
	assert.Equal(t, grid.SymbolGoal, displayAt(t, g, goal))
	assert.True(t, c.Relocating())

	for i := 1; i <= 3; i++ {
		assert.Equal(t, goal, c.Tick(), "tick %d", i)
	}
	moved := c.Tick()
	assert.Equal(t, grid.Position{Row: 1, Col: 0}, moved)
	assert.Equal(t, 4, c.Ticks())

	// The vacated cell shows its pre-occupation value again.
	assert.Equal(t, grid.SymbolCost2, displayAt(t, g, goal))
	assert.Equal(t, grid.SymbolGoal, displayAt(t, g, moved))
	assert.Equal(t, 1, countGoals(g))

	for i := 0; i < 4; i++ {
		c.Tick()
	}
	assert.Equal(t, final, c.Goal())
	assert.False(t, c.Relocating())
	assert.Equal(t, grid.SymbolCost1, displayAt(t, g, moved))
}

func TestGoalController_RowsBeforeColumns(t *testing.T) {
	cost := make([][]float64, 4)
	for y := range cost {
		cost[y] = []float64{1, 1, 1, 1}
	}
	g := newGrid(t, cost)
	final := grid.Position{Row: 0, Col: 0}
	c, err := NewGoalController(g, grid.Position{Row: 3, Col: 3}, &final)
	require.NoError(t, err)

	var trail []grid.Position
	for c.Relocating() {
		before := c.Goal()
		for i := 0; i < TICK_PERIOD; i++ {
			c.Tick()
		}
		require.NotEqual(t, before, c.Goal())
		trail = append(trail, c.Goal())
	}
	assert.Equal(t, []grid.Position{
		{Row: 2, Col: 3}, {Row: 1, Col: 3}, {Row: 0, Col: 3},
		{Row: 0, Col: 2}, {Row: 0, Col: 1}, {Row: 0, Col: 0},
	}, trail)
}

func TestGoalController_StationaryIsIdempotent(t *testing.T) {
	g := newGrid(t, [][]float64{{1, 2}})
	goal := grid.Position{Row: 0, Col: 1}

	for _, final := range []*grid.Position{nil, &goal} {
		c, err := NewGoalController(g, goal, final)
		require.NoError(t, err)
		before := g.Snapshot()
		for i := 0; i < 20; i++ {
			assert.Equal(t, goal, c.Tick())
		}
		assert.Equal(t, before, g.Snapshot())
		assert.False(t, c.Relocating())
	}
}

func TestGoalController_StallsBeforeWall(t *testing.T) {
	g := newGrid(t, [][]float64{{1, -1, 1}})
	final := grid.Position{Row: 0, Col: 2}
	c, err := NewGoalController(g, grid.Position{Row: 0, Col: 0}, &final)
	require.NoError(t, err)

	for i := 0; i < 8; i++ {
		c.Tick()
	}
	assert.Equal(t, grid.Position{Row: 0, Col: 0}, c.Goal())
	assert.True(t, c.Stalled())
	assert.Equal(t, grid.SymbolWall, displayAt(t, g, grid.Position{Row: 0, Col: 1}))

	// The wall never clears, so the goal stays put for good.
	for i := 0; i < 40; i++ {
		c.Tick()
	}
	assert.Equal(t, grid.Position{Row: 0, Col: 0}, c.Goal())
	assert.True(t, c.Stalled())
	assert.True(t, c.Relocating())
}

func TestNewGoalController_Rejects(t *testing.T) {
	g := newGrid(t, [][]float64{{1, -1}})
	wall := grid.Position{Row: 0, Col: 1}
	open := grid.Position{Row: 0, Col: 0}

	_, err := NewGoalController(g, wall, nil)
	assert.ErrorIs(t, err, grid.ErrInvalidPosition)

	_, err = NewGoalController(g, open, &wall)
	assert.ErrorIs(t, err, grid.ErrInvalidPosition)

	outside := grid.Position{Row: 5, Col: 5}
	_, err = NewGoalController(g, open, &outside)
	assert.ErrorIs(t, err, grid.ErrOutOfBounds)
}
