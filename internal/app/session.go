package app

import (
	"log/slog"
	"sync"

	"typerace/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	PlayerID() string
	Close() error
}

// RaceSession wraps a race with concurrency control and client management.
// All aggregate mutation goes through the session mutex, so two players
// racing a word completion at the same instant cannot lose an update.
type RaceSession struct {
	session   *domain.Session
	mu        sync.RWMutex
	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex
	logger    *slog.Logger

	// Event channel for broadcasting
	events  chan *domain.GameEvent
	closing chan struct{}
	done    chan struct{}

	closeOnce sync.Once
	drainOnce sync.Once
}

// NewRaceSession creates a new race session
func NewRaceSession(session *domain.Session, logger *slog.Logger) *RaceSession {
	s := &RaceSession{
		session: session,
		clients: make(map[string]ClientConnection),
		logger:  logger,
		events:  make(chan *domain.GameEvent, 100),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}

	// Start event broadcaster
	go s.eventLoop()

	return s
}

// ID returns the session identifier
func (s *RaceSession) ID() string {
	return s.session.ID
}

// GetStatus returns the current session status
func (s *RaceSession) GetStatus() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Status
}

// GetPlayerCount returns the number of players in the race
func (s *RaceSession) GetPlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.session.Players)
}

// RegisterClient registers a client connection for a player
func (s *RaceSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a client connection
func (s *RaceSession) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// snapshot copies the session state for broadcasting. Marshaling happens on
// the client write paths, so payloads must not alias live player state.
// Caller must hold at least a read lock.
func (s *RaceSession) snapshot() *domain.Session {
	players := make(map[string]*domain.PlayerState, len(s.session.Players))
	for id, p := range s.session.Players {
		copied := *p
		players[id] = &copied
	}

	return &domain.Session{
		ID:        s.session.ID,
		Words:     s.session.Words,
		StartedAt: s.session.StartedAt,
		Players:   players,
		Status:    s.session.Status,
		CreatedAt: s.session.CreatedAt,
	}
}

// Snapshot returns a copy of the current session state
func (s *RaceSession) Snapshot() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// NotifySearchSuccess announces the freshly matched session to its players
func (s *RaceSession) NotifySearchSuccess() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.queueEvent(domain.NewEvent(domain.EventGameSearchSuccess, s.session.ID, s.snapshot()))
}

// MarkReady records a player's ready signal. When the signal completes the
// set, the race clock starts and gameReadySuccess is broadcast; that edge
// is crossed exactly once per session. Returns true if this signal started
// the race.
func (s *RaceSession) MarkReady(playerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Status != domain.StatusWaiting {
		return false, domain.ErrInvalidTransition
	}

	if err := s.session.SetReady(playerID); err != nil {
		return false, err
	}

	if !s.session.AllReady() {
		return false, nil
	}

	if err := s.session.Start(); err != nil {
		return false, err
	}

	s.queueEvent(domain.NewEvent(domain.EventGameReadySuccess, s.session.ID, s.snapshot()))
	return true, nil
}

// UpdateText overwrites the player's live text and notifies the other
// session members. The sender already sees its own text; it is excluded
// from the broadcast.
func (s *RaceSession) UpdateText(playerID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Status == domain.StatusFinished {
		return domain.ErrInvalidTransition
	}

	if err := s.session.SetText(playerID, text); err != nil {
		return err
	}

	s.queueEvent(domain.NewEventExcluding(domain.EventGameUpdate, s.session.ID, playerID, s.snapshot()))
	return nil
}

// CompleteWord scores the player's current word and advances them. Returns
// true when this completion finished the race, in which case gameOver goes
// to every member instead of gameUpdate.
func (s *RaceSession) CompleteWord(playerID string, errorCount int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.CompleteWord(playerID, errorCount); err != nil {
		return false, err
	}

	if s.session.IsOver() {
		if err := s.session.Finish(); err != nil {
			return false, err
		}
		s.queueEvent(domain.NewEvent(domain.EventGameOver, s.session.ID, s.snapshot()))
		return true, nil
	}

	s.queueEvent(domain.NewEvent(domain.EventGameUpdate, s.session.ID, s.snapshot()))
	return false, nil
}

// NotifyDisconnect tells the remaining members that a participant left
func (s *RaceSession) NotifyDisconnect(participantID string) {
	payload := &domain.PlayerDisconnectedPayload{
		ParticipantID: participantID,
	}
	s.queueEvent(domain.NewEventExcluding(domain.EventPlayerDisconnected, s.session.ID, participantID, payload))
}

// queueEvent adds an event to the broadcast queue
func (s *RaceSession) queueEvent(event *domain.GameEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients
func (s *RaceSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		case <-s.closing:
			// Deliver what is already queued, then stop
			for {
				select {
				case event := <-s.events:
					s.broadcastEvent(event)
				default:
					return
				}
			}
		}
	}
}

// broadcastEvent sends an event to the session's clients
func (s *RaceSession) broadcastEvent(event *domain.GameEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for playerID, client := range s.clients {
		if playerID == event.ExcludeID {
			continue
		}
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}

// Shutdown stops the broadcaster once queued events have been delivered.
// Client connections are left open; their lifecycle belongs to the
// transport layer.
func (s *RaceSession) Shutdown() {
	s.drainOnce.Do(func() {
		close(s.closing)
	})
}

// Close shuts down the session and its client connections
func (s *RaceSession) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}
