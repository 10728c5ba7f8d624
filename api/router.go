package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"gridpath-server/config"
	"gridpath-server/server"
)

// NewAPIRouter builds the /api router with middlewares and routes.
func NewAPIRouter(cfg config.Config, sessions *server.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	sh := NewSessionHandler(cfg, sessions)
	mh := NewMetricsHandler(sessions)
	r.Route("/v1", func(sub chi.Router) {
		// Health
		sub.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status":   "ok",
				"sessions": len(sessions.List()),
			})
		})
		sh.Routes(sub)
		mh.Routes(sub)
	})

	return r
}
