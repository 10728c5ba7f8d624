package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gridpath-server/pathfinding"
	"gridpath-server/server"
)

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthOk       HealthStatus = "ok"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// SessionMetrics summarises the live sessions.
type SessionMetrics struct {
	TotalSessions     int                        `json:"total_sessions"`
	ActiveConnections int                        `json:"active_connections"`
	Relocating        int                        `json:"relocating"`
	Stalled           int                        `json:"stalled"`
	ByStatus          map[pathfinding.Status]int `json:"by_status"`
}

// WorkloadMetrics tracks the current system workload
type WorkloadMetrics struct {
	LoadPercentage     float64 `json:"load_percentage"`
	MaxSessionCapacity int     `json:"max_session_capacity"`
	CurrentLoad        string  `json:"current_load"` // "low", "medium", "high", "critical"
}

// MetricsResponse is the complete metrics response structure
type MetricsResponse struct {
	Timestamp         time.Time       `json:"timestamp"`
	Health            HealthStatus    `json:"health"`
	HealthDescription string          `json:"health_description"`
	Sessions          SessionMetrics  `json:"sessions"`
	Workload          WorkloadMetrics `json:"workload"`
	ServerUptime      int64           `json:"server_uptime_sec"`
}

// MetricsHandler reports session and workload metrics.
type MetricsHandler struct {
	sessions        *server.SessionManager
	serverStartTime time.Time

	// Thresholds for health status
	maxSessions              int
	warningSessionThreshold  int
	criticalSessionThreshold int
}

func NewMetricsHandler(sessions *server.SessionManager) *MetricsHandler {
	return &MetricsHandler{
		sessions:                 sessions,
		serverStartTime:          time.Now(),
		maxSessions:              100,
		warningSessionThreshold:  80, // Warning at 80% capacity
		criticalSessionThreshold: 95, // Critical at 95% capacity
	}
}

// Routes registers metrics routes
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/sessions", h.GetSessions)
	r.Get("/metrics/workload", h.GetWorkload)
}

// GetMetrics returns complete metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collectMetrics())
}

func (h *MetricsHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collectSessionMetrics())
}

func (h *MetricsHandler) GetWorkload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.calculateWorkloadMetrics(h.collectSessionMetrics()))
}

func (h *MetricsHandler) collectMetrics() *MetricsResponse {
	sessions := h.collectSessionMetrics()
	workload := h.calculateWorkloadMetrics(sessions)
	health, description := h.determineHealth(sessions)
	return &MetricsResponse{
		Timestamp:         time.Now().UTC(),
		Health:            health,
		HealthDescription: description,
		Sessions:          sessions,
		Workload:          workload,
		ServerUptime:      int64(time.Since(h.serverStartTime).Seconds()),
	}
}

func (h *MetricsHandler) collectSessionMetrics() SessionMetrics {
	m := SessionMetrics{ByStatus: make(map[pathfinding.Status]int)}
	for _, s := range h.sessions.List() {
		snap := s.Snapshot()
		m.TotalSessions++
		m.ActiveConnections += s.ClientCount()
		if snap.Relocating {
			m.Relocating++
		}
		if snap.Stalled {
			m.Stalled++
		}
		m.ByStatus[snap.Result.Status]++
	}
	return m
}

func (h *MetricsHandler) calculateWorkloadMetrics(sessions SessionMetrics) WorkloadMetrics {
	load := float64(sessions.TotalSessions) / float64(h.maxSessions) * 100
	current := "low"
	switch {
	case sessions.TotalSessions >= h.criticalSessionThreshold:
		current = "critical"
	case sessions.TotalSessions >= h.warningSessionThreshold:
		current = "high"
	case load >= 50:
		current = "medium"
	}
	return WorkloadMetrics{
		LoadPercentage:     load,
		MaxSessionCapacity: h.maxSessions,
		CurrentLoad:        current,
	}
}

func (h *MetricsHandler) determineHealth(sessions SessionMetrics) (HealthStatus, string) {
	switch {
	case sessions.TotalSessions >= h.criticalSessionThreshold:
		return HealthCritical, "session count near capacity"
	case sessions.TotalSessions >= h.warningSessionThreshold:
		return HealthWarning, "session count high"
	case sessions.Stalled > 0:
		return HealthWarning, "some goals are stalled against walls"
	}
	return HealthOk, "all systems nominal"
}
