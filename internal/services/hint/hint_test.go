package hint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sketchgame/internal/dependencies/mocks"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name     string
		word     string
		revealed map[int]bool
		want     string
	}{
		{"nothing revealed", "turtle", nil, "_ _ _ _ _ _"},
		{"some revealed", "turtle", map[int]bool{0: true, 3: true}, "t _ _ t _ _"},
		{"all revealed", "cat", map[int]bool{0: true, 1: true, 2: true}, "c a t"},
		{"spaces always visible", "ice cream", nil, "_ _ _   _ _ _ _ _"},
		{"empty word", "", nil, ""},
		{"multibyte", "café", map[int]bool{3: true}, "_ _ _ é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.word, tt.revealed))
		})
	}
}

func TestMaskNeverContainsWord(t *testing.T) {
	words := []string{"turtle", "ice cream", "hot dog", "snowman"}
	for _, w := range words {
		masked := Mask(w, nil)
		assert.NotContains(t, masked, w)
		for _, r := range strings.ReplaceAll(masked, " ", "") {
			assert.Equal(t, Placeholder, r)
		}
	}
}

func TestMaskIsPure(t *testing.T) {
	revealed := map[int]bool{1: true}
	first := Mask("rocket", revealed)
	second := Mask("rocket", revealed)

	assert.Equal(t, first, second)
	assert.Len(t, revealed, 1)
}

func TestLetters(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6}, Letters("hot dog"))
	assert.Empty(t, Letters("   "))
}

func TestTrackerRevealsUntilMinimumHidden(t *testing.T) {
	rnd := mocks.NewMockRandom()
	tr := NewTracker("turtle", 2)

	count := 0
	for {
		_, ok := tr.Reveal(rnd)
		if !ok {
			break
		}
		count++
		require.GreaterOrEqual(t, tr.Hidden(), 2)
	}

	assert.Equal(t, 4, count)
	assert.Equal(t, 2, tr.Hidden())
	assert.False(t, tr.CanReveal())
}

func TestTrackerSkipsSpacesAndRevealed(t *testing.T) {
	rnd := mocks.NewMockRandom()
	// hidden letters of "ab cd" are [0 1 3 4]; pick index 2 then index 2 again
	rnd.QueueIntn(2, 2)
	tr := NewTracker("ab cd", 2)

	first, ok := tr.Reveal(rnd)
	require.True(t, ok)
	assert.Equal(t, 3, first)

	second, ok := tr.Reveal(rnd)
	require.True(t, ok)
	assert.Equal(t, 4, second)

	assert.Equal(t, []int{3, 4}, tr.Revealed())
	assert.Equal(t, "_ _   c d", tr.Masked())

	_, ok = tr.Reveal(rnd)
	assert.False(t, ok)
}

func TestTrackerShortWordNeverReveals(t *testing.T) {
	tr := NewTracker("ox", 2)

	_, ok := tr.Reveal(mocks.NewMockRandom())

	assert.False(t, ok)
	assert.Equal(t, "_ _", tr.Masked())
}

func TestTrackerRevealedOnlyGrows(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(5, 0, 3)
	tr := NewTracker("umbrella", 2)

	var prev []int
	for i := 0; i < 3; i++ {
		_, ok := tr.Reveal(rnd)
		require.True(t, ok)
		now := tr.Revealed()
		assert.Subset(t, now, prev)
		assert.Len(t, now, len(prev)+1)
		prev = now
	}
}
