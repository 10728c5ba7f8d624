package server

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"gridpath-server/instance"
	"gridpath-server/pathfinding"
	"gridpath-server/store"
)

// SessionManager manages all live sessions.
type SessionManager struct {
	sessions      map[string]*Session
	sessionsMutex sync.RWMutex
	runs          store.Store
	autoplay      time.Duration
	options       []pathfinding.Option
}

// NewSessionManager creates a manager whose sessions record runs in runs and
// search with options. autoplay is the tick interval for autoplaying sessions.
func NewSessionManager(runs store.Store, autoplay time.Duration, options ...pathfinding.Option) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		runs:     runs,
		autoplay: autoplay,
		options:  options,
	}
}

// Runs returns the store sessions record into.
func (m *SessionManager) Runs() store.Store { return m.runs }

// Create registers a session for model and computes its first path.
func (m *SessionManager) Create(ctx context.Context, model *instance.MapModel, taskID int, autoplay bool) (*Session, error) {
	s := NewSession(uuid.NewString(), taskID, model, m.runs, m.options...)
	if _, err := s.Advance(ctx, 0); err != nil {
		return nil, err
	}

	m.sessionsMutex.Lock()
	m.sessions[s.ID] = s
	m.sessionsMutex.Unlock()

	if autoplay && m.autoplay > 0 {
		go s.RunAutoplay(m.autoplay)
	}
	log.Printf("Created session %s (task %d).", s.ID, taskID)
	return s, nil
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	m.sessionsMutex.RLock()
	defer m.sessionsMutex.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// List returns the sessions, oldest first.
func (m *SessionManager) List() []*Session {
	m.sessionsMutex.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.sessionsMutex.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Remove closes and forgets a session. It reports whether it existed.
func (m *SessionManager) Remove(id string) bool {
	m.sessionsMutex.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.sessionsMutex.Unlock()
	if ok {
		s.Close()
	}
	return ok
}

// CloseAll shuts down every session.
func (m *SessionManager) CloseAll() {
	m.sessionsMutex.Lock()
	defer m.sessionsMutex.Unlock()
	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
	log.Println("All sessions closed.")
}
