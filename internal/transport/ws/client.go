package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"typerace/internal/app"
	"typerace/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection
type Client struct {
	conn          *websocket.Conn
	hub           *app.Hub
	participantID string
	send          chan []byte
	done          chan struct{}
	logger        *slog.Logger
	mu            sync.Mutex
	closed        bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *app.Hub, participantID string, logger *slog.Logger) *Client {
	return &Client{
		conn:          conn,
		hub:           hub,
		participantID: participantID,
		send:          make(chan []byte, sendBufferSize),
		done:          make(chan struct{}),
		logger:        logger,
	}
}

// PlayerID implements app.ClientConnection
func (c *Client) PlayerID() string {
	return c.participantID
}

// Send implements app.ClientConnection
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped", "participantId", c.participantID)
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.hub.DisconnectClient(c.participantID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client. Rejected
// events are logged and dropped without mutating state; the client treats
// the missing broadcast as the rejection signal.
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Warn("invalid message", "participantId", c.participantID, "error", err)
		return
	}

	switch msg.Type {
	case MsgGameSearchInit:
		c.handleGameSearchInit(msg.Payload)
	case MsgPlayerReadyInit:
		c.handlePlayerReadyInit(msg.Payload)
	case MsgUpdateLocalText:
		c.handleUpdateLocalText(msg.Payload)
	case MsgCompleteWord:
		c.handleCompleteWord(msg.Payload)
	case MsgPing:
		c.Send(NewServerMessage(MsgPong, nil))
	default:
		c.logger.Warn("unknown message type", "participantId", c.participantID, "type", msg.Type)
	}
}

// handleGameSearchInit queues the participant for matchmaking
func (c *Client) handleGameSearchInit(raw json.RawMessage) {
	var payload GameSearchInitPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.DisplayName == "" {
		c.logger.Warn("invalid gameSearchInit payload", "participantId", c.participantID)
		return
	}

	participant := domain.Participant{
		ID:          c.participantID,
		DisplayName: payload.DisplayName,
	}

	if err := c.hub.EnqueueParticipant(participant, c); err != nil {
		c.logger.Warn("enqueue rejected", "participantId", c.participantID, "error", err)
	}
}

// handlePlayerReadyInit records the ready signal for the player's session
func (c *Client) handlePlayerReadyInit(raw json.RawMessage) {
	var payload PlayerReadyInitPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.SessionID == "" {
		c.logger.Warn("invalid playerReadyInit payload", "participantId", c.participantID)
		return
	}

	race, err := c.hub.GetSession(payload.SessionID)
	if err != nil {
		c.logger.Warn("ready for unknown session", "participantId", c.participantID, "sessionId", payload.SessionID)
		return
	}

	if _, err := race.MarkReady(c.participantID); err != nil {
		c.logger.Warn("ready rejected", "participantId", c.participantID, "sessionId", payload.SessionID, "error", err)
	}
}

// handleUpdateLocalText forwards the player's live text to the session
func (c *Client) handleUpdateLocalText(raw json.RawMessage) {
	var payload UpdateLocalTextPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.SessionID == "" {
		c.logger.Warn("invalid updateLocalText payload", "participantId", c.participantID)
		return
	}

	race, err := c.hub.GetSession(payload.SessionID)
	if err != nil {
		c.logger.Warn("text update for unknown session", "participantId", c.participantID, "sessionId", payload.SessionID)
		return
	}

	if err := race.UpdateText(c.participantID, payload.CurrentText); err != nil {
		c.logger.Warn("text update rejected", "participantId", c.participantID, "sessionId", payload.SessionID, "error", err)
	}
}

// handleCompleteWord scores the player's current word; a race-ending
// completion retires the session from the registry
func (c *Client) handleCompleteWord(raw json.RawMessage) {
	var payload CompleteWordPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.SessionID == "" {
		c.logger.Warn("invalid completeWord payload", "participantId", c.participantID)
		return
	}

	race, err := c.hub.GetSession(payload.SessionID)
	if err != nil {
		c.logger.Warn("word completion for unknown session", "participantId", c.participantID, "sessionId", payload.SessionID)
		return
	}

	finished, err := race.CompleteWord(c.participantID, payload.ErrorCount)
	if err != nil {
		c.logger.Warn("word completion rejected", "participantId", c.participantID, "sessionId", payload.SessionID, "error", err)
		return
	}

	if finished {
		c.hub.FinishSession(payload.SessionID)
	}
}

// sendConnected tells the client its assigned connection id
func (c *Client) sendConnected() {
	payload := &ConnectedPayload{
		ParticipantID: c.participantID,
	}
	c.Send(NewServerMessage(MsgConnected, payload))
}
