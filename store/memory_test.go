package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveRun(ctx, Run{ID: "a", SessionID: "s1", Tick: 0, CreatedAt: base}))
	require.NoError(t, s.SaveRun(ctx, Run{ID: "b", SessionID: "s1", Tick: 4, CreatedAt: base.Add(time.Second)}))
	require.NoError(t, s.SaveRun(ctx, Run{ID: "c", SessionID: "s1", Tick: 8, CreatedAt: base.Add(time.Second)}))
	require.NoError(t, s.SaveRun(ctx, Run{ID: "x", SessionID: "s2", CreatedAt: base}))

	runs, err := s.ListRuns(ctx, "s1", 0)
	require.NoError(t, err)
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"c", "b", "a"}, ids)

	runs, err = s.ListRuns(ctx, "s1", 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = s.ListRuns(ctx, "missing", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestMemoryStore_Closed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Close(ctx))

	assert.ErrorIs(t, s.SaveRun(ctx, Run{SessionID: "s"}), ErrClosed)
	_, err := s.ListRuns(ctx, "s", 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStore_KeepsNewestRunsPerSession(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithMaxRunsPerSession(3))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.SaveRun(ctx, Run{SessionID: "s1", Tick: i, CreatedAt: base.Add(time.Duration(i) * time.Second)}))
	}
	require.NoError(t, s.SaveRun(ctx, Run{SessionID: "s2", Tick: 0, CreatedAt: base}))

	runs, err := s.ListRuns(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []int{9, 8, 7}, []int{runs[0].Tick, runs[1].Tick, runs[2].Tick})

	runs, err = s.ListRuns(ctx, "s2", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestMemoryStore_DefaultCap(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithMaxRunsPerSession(0))
	for i := 0; i < DefaultMaxRunsPerSession+5; i++ {
		require.NoError(t, s.SaveRun(ctx, Run{SessionID: "s1", Tick: i}))
	}
	runs, err := s.ListRuns(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, runs, DefaultMaxRunsPerSession)
}
