package domain

// Status represents the lifecycle state of a race session
type Status string

const (
	StatusWaiting  Status = "WAITING"  // Players matched, waiting for ready signals
	StatusRunning  Status = "RUNNING"  // All players ready, race clock started
	StatusFinished Status = "FINISHED" // A player completed the word list
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from the current status to the
// target status is valid
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusWaiting: {StatusRunning},
		StatusRunning: {StatusFinished},
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}
