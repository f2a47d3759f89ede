package app

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"typerace/internal/domain"
)

// Hub owns the matchmaking queue and the session registry: session id ->
// race, participant id -> session id, plus the connections of participants
// still waiting to be matched. One mutex covers all of it, so a session is
// never observable without its back-references.
type Hub struct {
	sessions map[string]*RaceSession     // session id -> race
	players  map[string]string           // participant id -> session id
	queue    *domain.Queue               // waiting participants, FIFO
	pending  map[string]ClientConnection // queued participant id -> connection
	mu       sync.RWMutex

	groupSize    int
	wordsPerRace int
	completed    int

	logger *slog.Logger
	done   chan struct{}
}

// NewHub creates a hub that matches waiting participants into races of
// groupSize players over a word list of wordsPerRace words. Draining
// happens on every enqueue and, when drainInterval is positive, on a
// background sweep as well.
func NewHub(groupSize, wordsPerRace int, drainInterval time.Duration, logger *slog.Logger) *Hub {
	hub := &Hub{
		sessions:     make(map[string]*RaceSession),
		players:      make(map[string]string),
		queue:        domain.NewQueue(),
		pending:      make(map[string]ClientConnection),
		groupSize:    groupSize,
		wordsPerRace: wordsPerRace,
		logger:       logger,
		done:         make(chan struct{}),
	}

	if drainInterval > 0 {
		go hub.drainLoop(drainInterval)
	}

	return hub
}

// EnqueueParticipant adds a connection to the waiting list and immediately
// attempts to form a race. A participant that is already queued or already
// racing is rejected.
func (h *Hub) EnqueueParticipant(p domain.Participant, client ClientConnection) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, racing := h.players[p.ID]; racing {
		return domain.ErrAlreadyQueued
	}

	if err := h.queue.Enqueue(p); err != nil {
		return err
	}
	h.pending[p.ID] = client

	h.logger.Info("participant queued",
		"participantId", p.ID,
		"displayName", p.DisplayName,
		"queued", h.queue.Len(),
	)

	h.drainLocked()
	return nil
}

// drainLoop periodically sweeps the queue
func (h *Hub) drainLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.mu.Lock()
			h.drainLocked()
			h.mu.Unlock()
		}
	}
}

// drainLocked forms as many full races as the queue allows. Registration of
// the session and its back-references happens under the hub mutex, so no
// reader ever sees one without the other. Caller must hold mu.
func (h *Hub) drainLocked() {
	for {
		group := h.queue.Drain(h.groupSize)
		if group == nil {
			return
		}

		session := domain.NewSession(uuid.New().String(), SelectWords(h.wordsPerRace), group)
		race := NewRaceSession(session, h.logger)

		h.sessions[session.ID] = race
		for _, p := range group {
			h.players[p.ID] = session.ID
			if client, ok := h.pending[p.ID]; ok {
				race.RegisterClient(p.ID, client)
				delete(h.pending, p.ID)
			}
		}

		h.logger.Info("race matched", "sessionId", session.ID, "players", len(group))

		race.NotifySearchSuccess()
	}
}

// GetSession returns a race session by id
func (h *Hub) GetSession(sessionID string) (*RaceSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	race, ok := h.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return race, nil
}

// GetSessionForParticipant returns the race a participant belongs to
func (h *Hub) GetSessionForParticipant(participantID string) (*RaceSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sessionID, ok := h.players[participantID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	race, ok := h.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return race, nil
}

// FinishSession retires a finished race: the session and every player
// back-reference leave the registry, after the broadcaster has delivered
// what it already queued
func (h *Hub) FinishSession(sessionID string) {
	h.mu.Lock()
	race, ok := h.sessions[sessionID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(h.sessions, sessionID)
	for id, sid := range h.players {
		if sid == sessionID {
			delete(h.players, id)
		}
	}
	h.completed++
	h.mu.Unlock()

	race.Shutdown()

	h.logger.Info("race finished", "sessionId", sessionID)
}

// DisconnectClient handles a dropped connection. A participant still in the
// queue is simply removed. A racing participant leaves a ghost PlayerState
// behind so the survivors' word list and scoreboard stay intact, but the
// back-reference is cleared and the remaining members are notified.
func (h *Hub) DisconnectClient(participantID string) {
	h.mu.Lock()

	if h.queue.Remove(participantID) {
		delete(h.pending, participantID)
		h.mu.Unlock()
		h.logger.Info("queued participant disconnected", "participantId", participantID)
		return
	}

	sessionID, ok := h.players[participantID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(h.players, participantID)
	race := h.sessions[sessionID]
	h.mu.Unlock()

	if race == nil {
		return
	}

	race.UnregisterClient(participantID)
	race.NotifyDisconnect(participantID)

	h.logger.Info("racing participant disconnected",
		"participantId", participantID,
		"sessionId", sessionID,
	)
}

// GetSessionCount returns the number of active races
func (h *Hub) GetSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// GetQueuedCount returns the number of waiting participants
func (h *Hub) GetQueuedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.queue.Len()
}

// GetTotalPlayerCount returns the total number of players across all races
func (h *Hub) GetTotalPlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, race := range h.sessions {
		total += race.GetPlayerCount()
	}
	return total
}

// GetCompletedCount returns the number of races finished since start
func (h *Hub) GetCompletedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.completed
}

// Close shuts down the hub and all sessions
func (h *Hub) Close() {
	select {
	case <-h.done:
		return // Already closed
	default:
		close(h.done)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, race := range h.sessions {
		race.Close()
	}
	h.sessions = make(map[string]*RaceSession)
	h.players = make(map[string]string)
	h.pending = make(map[string]ClientConnection)
}
