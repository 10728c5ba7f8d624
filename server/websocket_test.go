package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridpath-server/store"
)

type testMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readMessage(t *testing.T, conn *websocket.Conn) testMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg testMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocket_TickAndPath(t *testing.T) {
	m := NewSessionManager(store.NewMemoryStore(), 0)
	defer m.CloseAll()
	s, err := m.Create(context.Background(), newCorridor(t), 0, false)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/ws", NewWebSocketHandler(m, nil).Routes)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/sessions/" + s.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	msg := readMessage(t, conn)
	require.Equal(t, messageSnapshot, msg.Type)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	assert.Equal(t, s.ID, snap.SessionID)
	assert.Equal(t, 0, snap.Tick)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "tick", "data": map[string]int{"n": 4}}))
	msg = readMessage(t, conn)
	require.Equal(t, messageSnapshot, msg.Type)
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	assert.Equal(t, 4, snap.Tick)
	assert.Equal(t, 3, snap.Goal.Col)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "path"}))
	msg = readMessage(t, conn)
	require.Equal(t, messageSnapshot, msg.Type)
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	assert.Equal(t, 4, snap.Tick)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "tick", "data": map[string]int{"n": -2}}))
	msg = readMessage(t, conn)
	assert.Equal(t, messageError, msg.Type)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "dance"}))
	msg = readMessage(t, conn)
	assert.Equal(t, messageError, msg.Type)
	assert.Contains(t, string(msg.Data), "dance")
}

func TestWebSocket_UnknownSession(t *testing.T) {
	m := NewSessionManager(store.NewMemoryStore(), 0)
	r := chi.NewRouter()
	r.Route("/ws", NewWebSocketHandler(m, []string{"http://allowed.test"}).Routes)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/sessions/nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocket_OriginCheck(t *testing.T) {
	m := NewSessionManager(store.NewMemoryStore(), 0)
	defer m.CloseAll()
	s, err := m.Create(context.Background(), newCorridor(t), 0, false)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/ws", NewWebSocketHandler(m, []string{"http://allowed.test"}).Routes)
	srv := httptest.NewServer(r)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/sessions/" + s.ID

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.test"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://allowed.test"}})
	require.NoError(t, err)
	conn.Close()
}
