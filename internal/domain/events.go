package domain

import "time"

// EventType represents the type of game event
type EventType string

const (
	EventGameSearchSuccess  EventType = "gameSearchSuccess"
	EventGameReadySuccess   EventType = "gameReadySuccess"
	EventGameUpdate         EventType = "gameUpdate"
	EventGameOver           EventType = "gameOver"
	EventPlayerDisconnected EventType = "playerDisconnected"
)

// GameEvent is the envelope broadcast to session members. Session payloads
// carry the full session state; there is no delta encoding.
type GameEvent struct {
	Type      EventType   `json:"type"`
	SessionID string      `json:"sessionId"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`

	// ExcludeID skips one session member during delivery, e.g. the sender
	// of a text update. Not serialized.
	ExcludeID string `json:"-"`
}

// NewEvent creates an event delivered to every session member
func NewEvent(eventType EventType, sessionID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		SessionID: sessionID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewEventExcluding creates an event delivered to every session member
// except excludeID
func NewEventExcluding(eventType EventType, sessionID, excludeID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		SessionID: sessionID,
		Payload:   payload,
		Timestamp: time.Now(),
		ExcludeID: excludeID,
	}
}

// PlayerDisconnectedPayload identifies the departed participant
type PlayerDisconnectedPayload struct {
	ParticipantID string `json:"participantId"`
}
