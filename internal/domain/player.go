package domain

// PlayerState tracks one matched player's progress through a race
type PlayerState struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Ready       bool   `json:"ready"`
	CurrentText string `json:"currentText"`
	WordIndex   int    `json:"wordIndex"`
	Score       int    `json:"score"`
}

// NewPlayerState creates the initial state for a freshly matched player
func NewPlayerState(id, displayName string) *PlayerState {
	return &PlayerState{
		ID:          id,
		DisplayName: displayName,
		Ready:       false,
		CurrentText: "",
		WordIndex:   0,
		Score:       0,
	}
}

// Finished returns true once the player has completed every word in a list
// of wordCount words
func (p *PlayerState) Finished(wordCount int) bool {
	return p.WordIndex >= wordCount
}
