package ws

import (
	"encoding/json"
	"time"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgGameSearchInit  MessageType = "gameSearchInit"
	MsgPlayerReadyInit MessageType = "playerReadyInit"
	MsgUpdateLocalText MessageType = "updateLocalText"
	MsgCompleteWord    MessageType = "completeWord"
	MsgPing            MessageType = "ping"
)

// Server → Client message types. Race broadcasts go out as
// domain.GameEvent envelopes; these cover connection-level replies.
const (
	MsgConnected MessageType = "connected"
	MsgPong      MessageType = "pong"
)

// ClientMessage is the envelope for inbound messages. The payload stays
// raw until the type is known, then decodes into the matching payload
// struct with a fixed field set.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// GameSearchInitPayload is the payload for gameSearchInit
type GameSearchInitPayload struct {
	DisplayName string `json:"displayName"`
}

// PlayerReadyInitPayload is the payload for playerReadyInit
type PlayerReadyInitPayload struct {
	SessionID string `json:"sessionId"`
}

// UpdateLocalTextPayload is the payload for updateLocalText
type UpdateLocalTextPayload struct {
	SessionID   string `json:"sessionId"`
	CurrentText string `json:"currentText"`
}

// CompleteWordPayload is the payload for completeWord
type CompleteWordPayload struct {
	SessionID  string `json:"sessionId"`
	ErrorCount int    `json:"errorCount"`
}

// ServerMessage is the envelope for connection-level replies
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ConnectedPayload is the payload for the connected message
type ConnectedPayload struct {
	ParticipantID string `json:"participantId"`
}
