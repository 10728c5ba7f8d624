package api

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gridpath-server/config"
	"gridpath-server/grid"
	"gridpath-server/instance"
	"gridpath-server/pathfinding"
	"gridpath-server/render"
	"gridpath-server/server"
	"gridpath-server/store"
)

// SessionHandler groups dependencies of the session routes.
type SessionHandler struct {
	cfg      config.Config
	sessions *server.SessionManager
}

func NewSessionHandler(cfg config.Config, sessions *server.SessionManager) *SessionHandler {
	return &SessionHandler{cfg: cfg, sessions: sessions}
}

// Routes registers the task and session routes.
func (h *SessionHandler) Routes(r chi.Router) {
	auth := AuthMiddleware(h.cfg.JWTSecret, h.cfg.JWTIssuer)

	r.Get("/tasks", h.ListTasks)
	r.Get("/sessions", h.List)
	r.Get("/sessions/{id}", h.Get)
	r.Get("/sessions/{id}/path", h.Path)
	r.Get("/sessions/{id}/image.png", h.Image)
	r.Get("/sessions/{id}/runs", h.Runs)
	r.With(auth, RequireRole(h.cfg.JWTSecret, RoleOperator)).Post("/sessions", h.Create)
	r.With(auth, RequireRole(h.cfg.JWTSecret, RoleOperator)).Post("/sessions/{id}/tick", h.Tick)
	r.With(auth, RequireRole(h.cfg.JWTSecret, RoleAdmin)).Delete("/sessions/{id}", h.Delete)
}

// MaxGridCells bounds the size of an inline grid.
const MaxGridCells = 250000

const maxCreateBody = 4 << 20

// createSessionRequest selects a preset task or supplies an inline grid.
// Start, goal and final goal override the task's when set.
type createSessionRequest struct {
	TaskID    *int           `json:"task_id,omitempty"`
	Grid      [][]float64    `json:"grid,omitempty"`
	Start     *grid.Position `json:"start,omitempty"`
	Goal      *grid.Position `json:"goal,omitempty"`
	FinalGoal *grid.Position `json:"final_goal,omitempty"`
	Autoplay  bool           `json:"autoplay"`
}

type sessionSummary struct {
	ID        string             `json:"id"`
	TaskID    int                `json:"task_id,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	Tick      int                `json:"tick"`
	Goal      grid.Position      `json:"goal"`
	Status    pathfinding.Status `json:"status"`
	Clients   int                `json:"clients"`
}

// ListTasks GET /tasks
func (h *SessionHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := config.TaskList()
	writeJSON(w, http.StatusOK, apiListResponse[config.Task]{Items: tasks, TotalItems: int64(len(tasks))})
}

// List GET /sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessions.List()
	items := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		snap := s.Snapshot()
		items = append(items, sessionSummary{
			ID:        s.ID,
			TaskID:    s.TaskID,
			CreatedAt: s.CreatedAt,
			Tick:      snap.Tick,
			Goal:      snap.Goal,
			Status:    snap.Result.Status,
			Clients:   s.ClientCount(),
		})
	}
	writeJSON(w, http.StatusOK, apiListResponse[sessionSummary]{Items: items, TotalItems: int64(len(items))})
}

// Create POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)
	var req createSessionRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	model, taskID, err := h.buildModel(req)
	if err != nil {
		var loadErr *mapLoadError
		if errors.As(err, &loadErr) {
			log.Printf("ERROR: %v", err)
			errorJSON(w, http.StatusInternalServerError, "failed to load task map")
			return
		}
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := h.sessions.Create(r.Context(), model, taskID, req.Autoplay)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.Snapshot())
}

type mapLoadError struct {
	task config.Task
	err  error
}

func (e *mapLoadError) Error() string {
	return fmt.Sprintf("loading map for task %d: %v", e.task.ID, e.err)
}

func (e *mapLoadError) Unwrap() error { return e.err }

func (h *SessionHandler) buildModel(req createSessionRequest) (*instance.MapModel, int, error) {
	var (
		g      *grid.Grid
		taskID int
		start  grid.Position
		goal   grid.Position
		final  *grid.Position
		err    error
	)
	switch {
	case req.TaskID != nil && req.Grid != nil:
		return nil, 0, errors.New("task_id and grid are mutually exclusive")
	case req.TaskID != nil:
		task, err := config.TaskByID(*req.TaskID)
		if err != nil {
			return nil, 0, err
		}
		g, err = grid.LoadCSV(task.MapPath(h.cfg.MapsDir))
		if err != nil {
			return nil, 0, &mapLoadError{task: task, err: err}
		}
		taskID, start, goal, final = task.ID, task.Start, task.Goal, task.FinalGoal
	case req.Grid != nil:
		if req.Start == nil || req.Goal == nil {
			return nil, 0, errors.New("an inline grid needs start and goal")
		}
		cells := 0
		for _, row := range req.Grid {
			cells += len(row)
		}
		if cells > MaxGridCells {
			return nil, 0, fmt.Errorf("grid has %d cells, limit is %d", cells, MaxGridCells)
		}
		g, err = grid.New(req.Grid)
		if err != nil {
			return nil, 0, err
		}
	default:
		return nil, 0, errors.New("one of task_id or grid is required")
	}

	if req.Start != nil {
		start = *req.Start
	}
	if req.Goal != nil {
		goal = *req.Goal
	}
	if req.FinalGoal != nil {
		final = req.FinalGoal
	}
	model, err := instance.NewMapModel(g, start, goal, final)
	if err != nil {
		return nil, 0, err
	}
	return model, taskID, nil
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*server.Session, bool) {
	s, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		errorJSON(w, http.StatusNotFound, "session not found")
	}
	return s, ok
}

// Get GET /sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// Tick POST /sessions/{id}/tick?n=1
func (h *SessionHandler) Tick(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	n := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			errorJSON(w, http.StatusBadRequest, "n must be an integer")
			return
		}
		n = v
	}
	snap, err := s.Advance(r.Context(), n)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Path GET /sessions/{id}/path?diagonal=true&max_expansions=100&heuristic=manhattan
func (h *SessionHandler) Path(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	var opts []pathfinding.Option
	if raw := q.Get("diagonal"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errorJSON(w, http.StatusBadRequest, "diagonal must be a boolean")
			return
		}
		opts = append(opts, pathfinding.WithDiagonal(v))
	}
	if raw := q.Get("max_expansions"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			errorJSON(w, http.StatusBadRequest, "max_expansions must be a non-negative integer")
			return
		}
		opts = append(opts, pathfinding.WithMaxExpansions(v))
	}
	if name := q.Get("heuristic"); name != "" {
		hf, ok := pathfinding.HeuristicByName(name)
		if !ok {
			errorJSON(w, http.StatusBadRequest, fmt.Sprintf("unknown heuristic %q", name))
			return
		}
		opts = append(opts, pathfinding.WithHeuristic(hf))
	}

	res, err := s.Path(opts...)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Image GET /sessions/{id}/image.png?scale=20
func (h *SessionHandler) Image(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	scale := clamp(parseInt(r.URL.Query().Get("scale"), h.cfg.ImageScale), 1, 64)
	var buf bytes.Buffer
	if err := render.WritePNG(&buf, s.Frame(), scale); err != nil {
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Runs GET /sessions/{id}/runs?limit=50
func (h *SessionHandler) Runs(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	limit := clamp(parseInt(r.URL.Query().Get("limit"), 50), 1, 500)
	runs, err := h.sessions.Runs().ListRuns(r.Context(), s.ID, limit)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, apiListResponse[store.Run]{Items: runs, TotalItems: int64(len(runs))})
}

// Delete DELETE /sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Remove(chi.URLParam(r, "id")) {
		errorJSON(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
