package domain

// Participant is a connected client waiting to be matched into a session
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Queue is the ordered waiting list of participants. Earliest arrivals are
// matched first. The queue is not safe for concurrent use; the hub
// serializes all access to it.
type Queue struct {
	entries []Participant
}

// NewQueue creates an empty matchmaking queue
func NewQueue() *Queue {
	return &Queue{
		entries: make([]Participant, 0),
	}
}

// Enqueue appends a participant to the tail of the queue. The same id
// cannot occupy two slots: matching it twice would produce two sessions
// fighting over one back-reference.
func (q *Queue) Enqueue(p Participant) error {
	for _, e := range q.entries {
		if e.ID == p.ID {
			return ErrAlreadyQueued
		}
	}

	q.entries = append(q.entries, p)
	return nil
}

// Drain removes and returns the groupSize earliest participants, or nil if
// fewer are waiting
func (q *Queue) Drain(groupSize int) []Participant {
	if groupSize <= 0 || len(q.entries) < groupSize {
		return nil
	}

	group := make([]Participant, groupSize)
	copy(group, q.entries[:groupSize])
	q.entries = append(q.entries[:0], q.entries[groupSize:]...)

	return group
}

// Remove drops a waiting participant, returning true if they were queued
func (q *Queue) Remove(id string) bool {
	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of waiting participants
func (q *Queue) Len() int {
	return len(q.entries)
}
