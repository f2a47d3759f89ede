package domain

import "time"

// Session represents one multiplayer typing race: a fixed word list and one
// PlayerState per matched participant. Methods are pure state transitions
// with sentinel errors; locking is the caller's responsibility.
type Session struct {
	ID        string                  `json:"id"`
	Words     []string                `json:"words"`
	StartedAt time.Time               `json:"startedAt,omitempty"`
	Players   map[string]*PlayerState `json:"players"`
	Status    Status                  `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
}

// NewSession creates a race for the matched participants. The word list is
// fixed for the session's lifetime; callers never pass an empty participant
// list or an empty word list.
func NewSession(id string, words []string, participants []Participant) *Session {
	players := make(map[string]*PlayerState, len(participants))
	for _, p := range participants {
		players[p.ID] = NewPlayerState(p.ID, p.DisplayName)
	}

	return &Session{
		ID:        id,
		Words:     words,
		Players:   players,
		Status:    StatusWaiting,
		CreatedAt: time.Now(),
	}
}

// GetPlayer returns a player by ID
func (s *Session) GetPlayer(playerID string) (*PlayerState, error) {
	player, ok := s.Players[playerID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	return player, nil
}

// SetReady marks a player as ready to race
func (s *Session) SetReady(playerID string) error {
	player, err := s.GetPlayer(playerID)
	if err != nil {
		return err
	}

	player.Ready = true
	return nil
}

// AllReady returns true if every player has signalled readiness
func (s *Session) AllReady() bool {
	for _, p := range s.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// Start begins the race clock. It fails once the session has left the
// waiting state, so it fires at most once per session.
func (s *Session) Start() error {
	if !s.Status.CanTransitionTo(StatusRunning) {
		return ErrInvalidTransition
	}

	s.StartedAt = time.Now()
	s.Status = StatusRunning
	return nil
}

// SetText overwrites the player's live text. The text is not validated
// against the target word; that is a client concern.
func (s *Session) SetText(playerID, text string) error {
	player, err := s.GetPlayer(playerID)
	if err != nil {
		return err
	}

	player.CurrentText = text
	return nil
}

// CompleteWord scores the player's current word and advances them to the
// next one. The score accumulates across words. A completion past the end
// of the word list is a duplicate or out-of-order event and is rejected
// without touching state.
func (s *Session) CompleteWord(playerID string, errorCount int) error {
	if s.Status != StatusRunning {
		return ErrInvalidTransition
	}

	player, err := s.GetPlayer(playerID)
	if err != nil {
		return err
	}

	if player.WordIndex >= len(s.Words) {
		return ErrInvalidTransition
	}

	word := s.Words[player.WordIndex]
	elapsed := time.Since(s.StartedAt)

	player.Score += Score(word, elapsed, errorCount)
	player.CurrentText = ""
	player.WordIndex++

	return nil
}

// IsOver reports whether the race has been won. The first player to finish
// the word list ends the race for everyone.
func (s *Session) IsOver() bool {
	for _, p := range s.Players {
		if p.Finished(len(s.Words)) {
			return true
		}
	}
	return false
}

// Finish marks the session finished
func (s *Session) Finish() error {
	if !s.Status.CanTransitionTo(StatusFinished) {
		return ErrInvalidTransition
	}

	s.Status = StatusFinished
	return nil
}
