package hint

import (
	"slices"

	"github.com/mcoot/sketchgame/internal/dependencies/random"
)

// Tracker holds the revealed letter positions of one round's word.
// The revealed set only grows.
type Tracker struct {
	word      string
	letters   []int
	revealed  map[int]bool
	minHidden int
}

// NewTracker creates a tracker that keeps at least minHidden letters hidden
func NewTracker(word string, minHidden int) *Tracker {
	return &Tracker{
		word:      word,
		letters:   Letters(word),
		revealed:  make(map[int]bool),
		minHidden: minHidden,
	}
}

// Hidden returns the number of non-space letters not yet revealed
func (t *Tracker) Hidden() int {
	return len(t.letters) - len(t.revealed)
}

// CanReveal reports whether one more reveal would still leave minHidden letters hidden
func (t *Tracker) CanReveal() bool {
	return t.Hidden() > t.minHidden
}

// Reveal discloses one random hidden letter and returns its index.
// It returns false once no further reveal is allowed.
func (t *Tracker) Reveal(rnd random.Random) (int, bool) {
	if !t.CanReveal() {
		return 0, false
	}

	hidden := make([]int, 0, t.Hidden())
	for _, i := range t.letters {
		if !t.revealed[i] {
			hidden = append(hidden, i)
		}
	}
	idx := hidden[rnd.Intn(len(hidden))]
	t.revealed[idx] = true
	return idx, true
}

// Masked returns the word as guessers see it
func (t *Tracker) Masked() string {
	return Mask(t.word, t.revealed)
}

// Revealed returns the revealed indices in ascending order
func (t *Tracker) Revealed() []int {
	out := make([]int, 0, len(t.revealed))
	for i := range t.revealed {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}
