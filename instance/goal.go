package instance

import (
	"log"

	"gridpath-server/grid"
)

// GoalController moves the current goal one cell toward the final goal on
// every TICK_PERIOD-th Tick. It owns the goal marker on the grid's display
// layer and remembers the symbol underneath so it can be restored when the
// goal moves on.
type GoalController struct {
	grid     *grid.Grid
	current  grid.Position
	final    grid.Position
	hasFinal bool
	ticks    int
	saved    grid.Symbol // display symbol under the current goal
	stalled  bool
}

// NewGoalController places the goal marker at goal. A nil final leaves the
// goal stationary for good. Both positions must be in bounds and passable.
func NewGoalController(g *grid.Grid, goal grid.Position, final *grid.Position) (*GoalController, error) {
	if err := g.Validate(goal); err != nil {
		return nil, err
	}
	c := &GoalController{grid: g, current: goal}
	if final != nil {
		if err := g.Validate(*final); err != nil {
			return nil, err
		}
		c.final = *final
		c.hasFinal = true
	}
	c.saved, _ = g.DisplayAt(goal)
	_ = g.SetDisplay(goal, grid.SymbolGoal)
	return c, nil
}

// Goal returns the current goal.
func (c *GoalController) Goal() grid.Position { return c.current }

// FinalGoal returns the destination, if one was set.
func (c *GoalController) FinalGoal() (grid.Position, bool) { return c.final, c.hasFinal }

// Ticks returns the number of Tick calls so far.
func (c *GoalController) Ticks() int { return c.ticks }

// Relocating reports whether the goal still has somewhere to go.
func (c *GoalController) Relocating() bool {
	return c.hasFinal && c.current != c.final
}

// Stalled reports whether the last relocation step was refused because the
// next cell is impassable.
func (c *GoalController) Stalled() bool { return c.stalled }

// nextStep resolves the row distance fully before touching the column.
func (c *GoalController) nextStep() grid.Position {
	next := c.current
	switch {
	case c.current.Row > c.final.Row:
		next.Row--
	case c.current.Row < c.final.Row:
		next.Row++
	case c.current.Col > c.final.Col:
		next.Col--
	default:
		next.Col++
	}
	return next
}

// Tick advances the tick counter and, on every TICK_PERIOD-th call while
// relocating, moves the goal one cell. It returns the current goal.
// A stall is permanent: the cost layer never changes, so the refused cell
// stays impassable.
func (c *GoalController) Tick() grid.Position {
	c.ticks++
	if c.ticks%TICK_PERIOD != 0 || !c.Relocating() {
		return c.current
	}

	next := c.nextStep()
	if blocked, err := c.grid.IsBlocked(next); err != nil || blocked {
		if !c.stalled {
			log.Printf("WARNING: Goal at %v cannot step onto impassable cell %v.", c.current, next)
		}
		c.stalled = true
		return c.current
	}
	c.stalled = false

	under, _ := c.grid.DisplayAt(next)
	_ = c.grid.SetDisplay(c.current, c.saved)
	_ = c.grid.SetDisplay(next, grid.SymbolGoal)
	c.saved = under
	c.current = next
	return c.current
}
