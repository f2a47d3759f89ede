package app

// RaceWords is the ordered list of candidate words for races. Sessions take
// a deterministic prefix of it, so every player in a race types the same
// sequence and races with the same settings are directly comparable.
var RaceWords = []string{
	"visit", "keyboard", "river", "planet", "window",
	"signal", "bridge", "copper", "lantern", "meadow",
	"harbor", "pencil", "garden", "timber", "velvet",
	"marble", "silver", "quiver", "tunnel", "basket",
	"candle", "forest", "island", "jacket", "ladder",
	"mirror", "needle", "orange", "puzzle", "rocket",
	"saddle", "temple", "valley", "walnut", "yellow",
	"anchor", "butter", "circle", "dragon", "ember",
}

// SelectWords returns the first count race words in their fixed order.
// Callers must keep count within the list length.
func SelectWords(count int) []string {
	words := make([]string, count)
	copy(words, RaceWords[:count])
	return words
}

// WordCount returns the size of the candidate list
func WordCount() int {
	return len(RaceWords)
}

// PreviewWords returns the short prefix served by the debug words endpoint
func PreviewWords() []string {
	return SelectWords(2)
}
