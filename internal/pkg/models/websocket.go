package models

import (
	"encoding/json"
	"errors"
	"time"
)

// ClientMessage represents an inbound WebSocket frame from a client.
type ClientMessage struct {
	Action string `json:"action"`
	Room   string `json:"room,omitempty"`
}

// ConnectedMessage confirms registration and carries the assigned
// connection id.
type ConnectedMessage struct {
	Type         string `json:"type"`
	ConnectionID uint64 `json:"connection_id"`
}

// PongMessage answers a client ping.
type PongMessage struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// RoomEventMessage confirms a subscribe or unsubscribe.
type RoomEventMessage struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// RoomsListMessage carries the connection's current room list.
type RoomsListMessage struct {
	Type  string   `json:"type"`
	Rooms []string `json:"rooms"`
}

// ErrorMessage represents an error frame sent over WebSocket.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BroadcastEnvelope is the payload fanned out to room members. It is
// constructed fresh per broadcast and never persisted.
type BroadcastEnvelope struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

// NewBroadcastEnvelope stamps an envelope with the current time.
func NewBroadcastEnvelope(event string, data json.RawMessage, now time.Time) BroadcastEnvelope {
	return BroadcastEnvelope{
		Event:     event,
		Data:      data,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// BroadcastRequest is the control-plane body accepted by both the HTTP
// bridge and the NATS subscription.
type BroadcastRequest struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Rooms []string        `json:"rooms,omitempty"`
}

// Validate checks the required broadcast fields. Data must be present
// but may be any JSON value, including null.
func (r BroadcastRequest) Validate() error {
	if r.Event == "" {
		return errors.New("event is required")
	}
	if len(r.Data) == 0 {
		return errors.New("data is required")
	}
	return nil
}
