package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// Message types exchanged over the websocket.
const (
	messageTick     = "tick"
	messagePath     = "path"
	messageSnapshot = "snapshot"
	messageError    = "error"
)

// clientMessage represents the generic structure of messages from the client.
type clientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type serverMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type tickRequestData struct {
	N *int `json:"n"`
}

// handleClientMessage processes one JSON message from client.
func (s *Session) handleClientMessage(client *WebSocketClient, message []byte) {
	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Client %s: ERROR unmarshaling incoming message: %v", client.id, err)
		s.replyError(client, "malformed message")
		return
	}

	switch msg.Type {
	case messageTick:
		n := 1
		if len(msg.Data) > 0 && string(msg.Data) != "null" {
			var data tickRequestData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				s.replyError(client, "malformed tick data")
				return
			}
			if data.N != nil {
				n = *data.N
			}
		}
		// Advance broadcasts to every client, this one included.
		if _, err := s.Advance(context.Background(), n); err != nil {
			s.replyError(client, err.Error())
		}
	case messagePath:
		s.reply(client, messageSnapshot, s.Snapshot())
	default:
		log.Printf("Client %s: WARNING unknown message type '%s'.", client.id, msg.Type)
		s.replyError(client, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// reply queues a message for client unless it has been removed.
func (s *Session) reply(client *WebSocketClient, kind string, data any) {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	if s.clients[client] {
		client.sendMessage(kind, data)
	}
}

func (s *Session) replyError(client *WebSocketClient, text string) {
	s.reply(client, messageError, map[string]string{"error": text})
}
