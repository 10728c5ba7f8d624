package store

import (
	"context"
	"sort"
	"sync"
)

// DefaultMaxRunsPerSession is how many runs a MemoryStore keeps per session.
const DefaultMaxRunsPerSession = 1000

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMaxRunsPerSession caps the runs kept per session; older runs are
// dropped first. Values below 1 keep the default.
func WithMaxRunsPerSession(n int) MemoryOption {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxRuns = n
		}
	}
}

// MemoryStore keeps the most recent runs of each session in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[string][]Run
	maxRuns int
	closed  bool
}

func NewMemoryStore(options ...MemoryOption) *MemoryStore {
	s := &MemoryStore{runs: make(map[string][]Run), maxRuns: DefaultMaxRunsPerSession}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	runs := append(s.runs[run.SessionID], run)
	if len(runs) > s.maxRuns {
		runs = append([]Run(nil), runs[len(runs)-s.maxRuns:]...)
	}
	s.runs[run.SessionID] = runs
	return nil
}

func (s *MemoryStore) ListRuns(_ context.Context, sessionID string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	src := s.runs[sessionID]
	out := make([]Run, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	// Runs saved within the same instant stay newest first.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
