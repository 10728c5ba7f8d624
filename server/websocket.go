package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocketHandler attaches websocket clients to sessions.
type WebSocketHandler struct {
	upgrader websocket.Upgrader
	sessions *SessionManager
}

// NewWebSocketHandler accepts connections from any origin when origins is
// empty or contains "*".
func NewWebSocketHandler(sessions *SessionManager, origins []string) *WebSocketHandler {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || allowed[origin]
			},
		},
		sessions: sessions,
	}
}

// Routes registers the websocket endpoint.
func (h *WebSocketHandler) Routes(r chi.Router) {
	r.Get("/sessions/{id}", h.Connect)
}

// Connect upgrades the request and attaches the connection to the session.
func (h *WebSocketHandler) Connect(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewWebSocketClient(conn, uuid.NewString())
	if !session.AddClient(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
		conn.Close()
		return
	}
	log.Printf("Client %s connected from %s.", client.id, conn.RemoteAddr())

	go client.WritePump()
	go client.ReadPump(session)
}
