// Package store records search runs made by sessions.
package store

import (
	"context"
	"errors"
	"time"

	"gridpath-server/grid"
	"gridpath-server/pathfinding"
)

// ErrClosed is returned by a store after Close.
var ErrClosed = errors.New("store closed")

// Run is one recorded search.
type Run struct {
	ID        string             `json:"id" bson:"_id"`
	SessionID string             `json:"session_id" bson:"session_id"`
	Tick      int                `json:"tick" bson:"tick"`
	Start     grid.Position      `json:"start" bson:"start"`
	Goal      grid.Position      `json:"goal" bson:"goal"`
	Status    pathfinding.Status `json:"status" bson:"status"`
	Cost      float64            `json:"cost" bson:"cost"`
	Length    int                `json:"length" bson:"length"`
	Expanded  int                `json:"expanded" bson:"expanded"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Store persists runs.
type Store interface {
	SaveRun(ctx context.Context, run Run) error
	// ListRuns returns up to limit runs of a session, newest first. A limit
	// of zero or less returns all of them.
	ListRuns(ctx context.Context, sessionID string, limit int) ([]Run, error)
	Close(ctx context.Context) error
}
