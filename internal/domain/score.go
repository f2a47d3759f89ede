package domain

import (
	"math"
	"time"
)

const (
	// pointsPerChar sets the guaranteed floor: a word is always worth at
	// least its length times this value
	pointsPerChar = 500

	// speedBonusFactor caps the speed reward at this multiple of the floor
	// per second
	speedBonusFactor = 5

	// errorPenalty is subtracted per reported typing error
	errorPenalty = 100

	// minElapsed guards the division for instantaneous completions
	minElapsed = time.Millisecond
)

// Score computes the points earned for typing word in elapsed time with
// errorCount mistakes. The result never drops below len(word)*500, so slow
// or error-heavy attempts still earn the length floor, while fast clean
// attempts are rewarded above it.
func Score(word string, elapsed time.Duration, errorCount int) int {
	if elapsed < minElapsed {
		elapsed = minElapsed
	}

	minScore := len(word) * pointsPerChar
	raw := int(math.Round(float64(minScore)*speedBonusFactor/elapsed.Seconds())) - errorCount*errorPenalty

	if raw < minScore {
		return minScore
	}
	return raw
}
