package pathfinding

import (
	"fmt"

	"gridpath-server/grid"
)

// Status classifies how a search ended.
type Status int

const (
	// NotFound means the frontier emptied before the goal was reached.
	NotFound Status = iota
	// Partial means the expansion cap was hit; the path ends at the last
	// node taken from the frontier.
	Partial
	// Complete means the path runs from start to goal.
	Complete
)

func (s Status) String() string {
	switch s {
	case NotFound:
		return "not_found"
	case Partial:
		return "partial"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "not_found":
		*s = NotFound
	case "partial":
		*s = Partial
	case "complete":
		*s = Complete
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}

// Result is the outcome of FindPath.
type Result struct {
	Status   Status          `json:"status"`
	Path     []grid.Position `json:"path,omitempty"` // start first; nil when NotFound
	Cost     float64         `json:"cost"`           // accumulated G of the last path node
	Expanded int             `json:"expanded"`       // positions expanded
}

// Found reports whether the path reaches the goal.
func (r Result) Found() bool { return r.Status == Complete }
