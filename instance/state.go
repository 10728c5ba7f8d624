package instance

import (
	"gridpath-server/grid"
	"gridpath-server/pathfinding"
)

// MapModel ties a grid to its fixed start and its moving goal. It is not safe
// for concurrent use; hosts that share one across goroutines must lock around
// it.
type MapModel struct {
	grid  *grid.Grid
	start grid.Position
	goals *GoalController
}

// NewMapModel marks start and goal on the grid's display layer. A nil final
// keeps the goal where it is. Every position must be in bounds and passable.
func NewMapModel(g *grid.Grid, start, goal grid.Position, final *grid.Position) (*MapModel, error) {
	if err := g.Validate(start); err != nil {
		return nil, err
	}
	if err := g.Validate(goal); err != nil {
		return nil, err
	}
	_ = g.SetDisplay(start, grid.SymbolStart)

	goals, err := NewGoalController(g, goal, final)
	if err != nil {
		// Undo the start marker so a failed construction leaves g as it was.
		c, _ := g.CostAt(start)
		_ = g.SetDisplay(start, grid.SymbolForCost(c))
		return nil, err
	}
	return &MapModel{grid: g, start: start, goals: goals}, nil
}

// Grid returns the underlying grid.
func (m *MapModel) Grid() *grid.Grid { return m.grid }

// Start returns the fixed start position.
func (m *MapModel) Start() grid.Position { return m.start }

// Goal returns the current goal.
func (m *MapModel) Goal() grid.Position { return m.goals.Goal() }

// FinalGoal returns the goal's destination, if one was set.
func (m *MapModel) FinalGoal() (grid.Position, bool) { return m.goals.FinalGoal() }

// Goals exposes the goal controller.
func (m *MapModel) Goals() *GoalController { return m.goals }

// Tick advances the goal controller by one tick.
func (m *MapModel) Tick() grid.Position { return m.goals.Tick() }

// FindPath searches from the start to the current goal. Every call is a fresh
// search against the grid's cost layer.
func (m *MapModel) FindPath(options ...pathfinding.Option) (pathfinding.Result, error) {
	return pathfinding.FindPath(m.grid, m.start, m.goals.Goal(), options...)
}

// Frame returns a copy of the display layer with path markers drawn on the
// interior cells of path. The start and goal markers are left in place.
func (m *MapModel) Frame(path []grid.Position) [][]grid.Symbol {
	frame := m.grid.Snapshot()
	for i := 1; i < len(path)-1; i++ {
		p := path[i]
		if !m.grid.InBounds(p) {
			continue
		}
		switch frame[p.Row][p.Col] {
		case grid.SymbolStart, grid.SymbolGoal, grid.SymbolWall:
			continue
		}
		frame[p.Row][p.Col] = grid.SymbolPath
	}
	return frame
}
