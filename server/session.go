package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gridpath-server/grid"
	"gridpath-server/instance"
	"gridpath-server/pathfinding"
	"gridpath-server/store"
)

// MaxTicksPerAdvance bounds a single Advance call.
const MaxTicksPerAdvance = 10000

// ErrInvalidTicks is returned by Advance for a tick count outside [0, MaxTicksPerAdvance].
var ErrInvalidTicks = errors.New("invalid tick count")

// Snapshot is the state of a session after its most recent search.
type Snapshot struct {
	SessionID  string             `json:"session_id"`
	TaskID     int                `json:"task_id,omitempty"`
	Tick       int                `json:"tick"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Start      grid.Position      `json:"start"`
	Goal       grid.Position      `json:"goal"`
	FinalGoal  *grid.Position     `json:"final_goal,omitempty"`
	Relocating bool               `json:"relocating"`
	Stalled    bool               `json:"stalled"`
	Result     pathfinding.Result `json:"result"`
	Rows       []string           `json:"rows"` // One character per cell, path drawn in
}

// Session is one map with a moving goal, shared by its websocket clients.
type Session struct {
	ID        string
	TaskID    int
	CreatedAt time.Time

	mu      sync.Mutex // Guards model and last
	model   *instance.MapModel
	options []pathfinding.Option
	last    pathfinding.Result
	runs    store.Store

	clients      map[*WebSocketClient]bool
	clientsMutex sync.RWMutex

	done      chan struct{}
	closeOnce sync.Once
}

// NewSession wraps model. Call Advance(ctx, 0) to compute the first path.
func NewSession(id string, taskID int, model *instance.MapModel, runs store.Store, options ...pathfinding.Option) *Session {
	return &Session{
		ID:        id,
		TaskID:    taskID,
		CreatedAt: time.Now().UTC(),
		model:     model,
		options:   options,
		runs:      runs,
		clients:   make(map[*WebSocketClient]bool),
		done:      make(chan struct{}),
	}
}

// Advance ticks the goal n times, searches from the start to the resulting
// goal, records the run and broadcasts the new snapshot.
func (s *Session) Advance(ctx context.Context, n int) (Snapshot, error) {
	if n < 0 || n > MaxTicksPerAdvance {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrInvalidTicks, n)
	}

	s.mu.Lock()
	for i := 0; i < n; i++ {
		s.model.Tick()
	}
	res, err := s.model.FindPath(s.options...)
	if err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	s.last = res
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.record(ctx, snap)
	s.broadcast(snap)
	return snap, nil
}

// Path runs a one-off search with extra options layered over the session's
// own. It does not change the session's last result.
func (s *Session) Path(options ...pathfinding.Option) (pathfinding.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := append(append([]pathfinding.Option(nil), s.options...), options...)
	return s.model.FindPath(all...)
}

// Snapshot returns the current state without searching again.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Frame returns the display layer with the last path drawn in.
func (s *Session) Frame() [][]grid.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Frame(s.last.Path)
}

func (s *Session) snapshotLocked() Snapshot {
	g := s.model.Grid()
	goals := s.model.Goals()
	snap := Snapshot{
		SessionID:  s.ID,
		TaskID:     s.TaskID,
		Tick:       goals.Ticks(),
		Width:      g.Width(),
		Height:     g.Height(),
		Start:      s.model.Start(),
		Goal:       goals.Goal(),
		Relocating: goals.Relocating(),
		Stalled:    goals.Stalled(),
		Result:     s.last,
	}
	if final, ok := goals.FinalGoal(); ok {
		snap.FinalGoal = &final
	}
	frame := s.model.Frame(s.last.Path)
	snap.Rows = make([]string, len(frame))
	for r, row := range frame {
		var b strings.Builder
		for _, sym := range row {
			b.WriteRune(sym.Rune())
		}
		snap.Rows[r] = b.String()
	}
	return snap
}

func (s *Session) record(ctx context.Context, snap Snapshot) {
	if s.runs == nil {
		return
	}
	run := store.Run{
		ID:        uuid.NewString(),
		SessionID: s.ID,
		Tick:      snap.Tick,
		Start:     snap.Start,
		Goal:      snap.Goal,
		Status:    snap.Result.Status,
		Cost:      snap.Result.Cost,
		Length:    len(snap.Result.Path),
		Expanded:  snap.Result.Expanded,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.runs.SaveRun(ctx, run); err != nil {
		log.Printf("Session %s: WARNING failed to record run at tick %d: %v", s.ID, snap.Tick, err)
	}
}

// RunAutoplay ticks the session every interval. It searches and records
// only when the goal moves, and stops once the goal is at its destination,
// has none, or is stalled, or when the session closes.
func (s *Session) RunAutoplay(interval time.Duration) {
	log.Printf("Session %s: Starting autoplay every %s.", s.ID, interval)
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		log.Printf("Session %s: Autoplay stopped.", s.ID)
	}()

	for {
		select {
		case <-ticker.C:
			active, err := s.autoplayStep(context.Background())
			if err != nil {
				log.Printf("Session %s: ERROR autoplay tick: %v", s.ID, err)
				return
			}
			if !active {
				return
			}
		case <-s.done:
			return
		}
	}
}

// autoplayStep ticks once and, if the goal moved, searches again. It reports
// false when the goal can no longer move.
func (s *Session) autoplayStep(ctx context.Context) (bool, error) {
	s.mu.Lock()
	goals := s.model.Goals()
	if !goals.Relocating() || goals.Stalled() {
		s.mu.Unlock()
		return false, nil
	}
	before := goals.Goal()
	moved := s.model.Tick() != before
	s.mu.Unlock()

	if moved {
		if _, err := s.Advance(ctx, 0); err != nil {
			return false, err
		}
	}
	return true, nil
}

// broadcast sends the snapshot to every connected client.
func (s *Session) broadcast(snap Snapshot) {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	if len(s.clients) == 0 {
		return
	}

	msg, err := encodeMessage(messageSnapshot, snap)
	if err != nil {
		log.Printf("Session %s: ERROR marshaling snapshot for broadcast: %v", s.ID, err)
		return
	}
	for client := range s.clients {
		select {
		case client.send <- msg:
		default:
			log.Printf("Session %s: WARNING Client %s send buffer full during broadcast.", s.ID, client.id)
		}
	}
}

// AddClient registers client and queues the current snapshot for it. It
// returns false once the session is closed.
func (s *Session) AddClient(client *WebSocketClient) bool {
	snap := s.Snapshot()

	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	select {
	case <-s.done:
		return false
	default:
	}
	s.clients[client] = true
	client.SessionID = s.ID
	client.sendMessage(messageSnapshot, snap)
	log.Printf("Session %s: Client %s added.", s.ID, client.id)
	return true
}

// RemoveClient unregisters client and closes its send channel.
func (s *Session) RemoveClient(client *WebSocketClient) {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		close(client.send)
		log.Printf("Session %s: Client %s removed.", s.ID, client.id)
	}
}

// ClientCount returns the number of connected clients.
func (s *Session) ClientCount() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

// Close stops autoplay and disconnects every client. It is safe to call more
// than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.clientsMutex.Lock()
		for client := range s.clients {
			close(client.send)
		}
		s.clients = make(map[*WebSocketClient]bool)
		s.clientsMutex.Unlock()
		log.Printf("Session %s: Closed.", s.ID)
	})
}

func encodeMessage(kind string, data any) ([]byte, error) {
	return json.Marshal(serverMessage{Type: kind, Data: data})
}
