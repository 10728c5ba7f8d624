package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridpath-server/grid"
	"gridpath-server/pathfinding"
)

// Runs against a live server only when MONGO_TEST_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	s, err := ConnectMongo(ctx, uri, "gridpath_test")
	require.NoError(t, err)
	defer s.Close(ctx)

	session := uuid.NewString()
	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveRun(ctx, Run{
			ID:        uuid.NewString(),
			SessionID: session,
			Tick:      i * 4,
			Goal:      grid.Position{Row: 1, Col: i},
			Status:    pathfinding.Complete,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	runs, err := s.ListRuns(ctx, session, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 8, runs[0].Tick)
	assert.Equal(t, pathfinding.Complete, runs[0].Status)
	assert.Equal(t, grid.Position{Row: 1, Col: 2}, runs[0].Goal)
	assert.Equal(t, 4, runs[1].Tick)
}
