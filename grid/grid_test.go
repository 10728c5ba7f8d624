package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LayersMatch(t *testing.T) {
	g, err := New([][]float64{
		{1, 2, 3},
		{4, -1, 7},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 2, g.Height())

	want := [][]Symbol{
		{SymbolCost1, SymbolCost2, SymbolCost3},
		{SymbolCost4, SymbolWall, SymbolEmpty},
	}
	assert.Equal(t, want, g.Snapshot())
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([][]float64{{1, 1}, {1}})
	assert.ErrorContains(t, err, "row 1")

	_, err = New([][]float64{{1, -2}})
	assert.ErrorContains(t, err, "negative cost")
}

func TestNew_CopiesInput(t *testing.T) {
	cost := [][]float64{{1, 1}}
	g, err := New(cost)
	require.NoError(t, err)
	cost[0][0] = Blocked

	c, err := g.CostAt(Position{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, c)
}

func TestAccessors_OutOfBounds(t *testing.T) {
	g, err := New([][]float64{{1, 1}, {1, 1}})
	require.NoError(t, err)

	for _, p := range []Position{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		assert.False(t, g.InBounds(p), "%v", p)

		_, err := g.CostAt(p)
		assert.ErrorIs(t, err, ErrOutOfBounds)
		_, err = g.DisplayAt(p)
		assert.ErrorIs(t, err, ErrOutOfBounds)
		_, err = g.IsBlocked(p)
		assert.ErrorIs(t, err, ErrOutOfBounds)
		assert.ErrorIs(t, g.SetDisplay(p, SymbolGoal), ErrOutOfBounds)
		assert.ErrorIs(t, g.Validate(p), ErrOutOfBounds)
	}
}

func TestSetDisplay_LeavesCost(t *testing.T) {
	g, err := New([][]float64{{3, 1}})
	require.NoError(t, err)

	p := Position{0, 0}
	require.NoError(t, g.SetDisplay(p, SymbolGoal))

	s, err := g.DisplayAt(p)
	require.NoError(t, err)
	assert.Equal(t, SymbolGoal, s)

	c, err := g.CostAt(p)
	require.NoError(t, err)
	assert.Equal(t, 3.0, c)
}

func TestValidate(t *testing.T) {
	g, err := New([][]float64{{1, -1}})
	require.NoError(t, err)

	assert.NoError(t, g.Validate(Position{0, 0}))
	assert.ErrorIs(t, g.Validate(Position{0, 1}), ErrInvalidPosition)

	blocked, err := g.IsBlocked(Position{0, 1})
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestSnapshot_IsCopy(t *testing.T) {
	g, err := New([][]float64{{1}})
	require.NoError(t, err)

	snap := g.Snapshot()
	snap[0][0] = SymbolPath

	s, _ := g.DisplayAt(Position{0, 0})
	assert.Equal(t, SymbolCost1, s)
}

func TestSymbol_Text(t *testing.T) {
	assert.Equal(t, " # ", SymbolWall.String())
	assert.Equal(t, 'G', SymbolGoal.Rune())
	assert.Equal(t, ' ', SymbolEmpty.Rune())

	b, err := SymbolPath.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "O", string(b))
}
