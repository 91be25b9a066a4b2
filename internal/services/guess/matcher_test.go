package guess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		guess string
		word  string
		want  bool
	}{
		{"turtle", "turtle", true},
		{"  TURTLE ", "turtle", true},
		{"Ice Cream", "ice cream", true},
		{"turtles", "turtle", false},
		{"", "turtle", false},
		{"", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(tt.guess, tt.word), "%q vs %q", tt.guess, tt.word)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"", "", 0},
		{"turtle", "turtle", 0},
		{"turtle", "turtel", 2},
		{"kitten", "sitting", 3},
		{"cat", "cut", 1},
		{"cat", "cats", 1},
		{"flaw", "lawn", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Distance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"rocket", "pocket"},
		{"snowman", "snow"},
		{"", "x"},
		{"dragon", "wagon"},
	}

	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1]), Distance(p[1], p[0]))
		assert.Equal(t, 0, Distance(p[0], p[0]))
	}
}

func TestNearMiss(t *testing.T) {
	assert.Equal(t, FeedbackOneOff, NearMiss("Turtl", "turtle"))
	assert.Equal(t, FeedbackWarmer, NearMiss("turt", "turtle"))
	assert.Equal(t, FeedbackWarmer, NearMiss("tortel", "turtle"))
	assert.Equal(t, FeedbackNone, NearMiss("banana", "turtle"))
	assert.Equal(t, FeedbackNone, NearMiss("turtle", "turtle"))
}

func TestFeedbackMessage(t *testing.T) {
	assert.Contains(t, FeedbackOneOff.Message("turtl"), "one letter off")
	assert.Contains(t, FeedbackWarmer.Message("turt"), "warmer")
	assert.Empty(t, FeedbackNone.Message("x"))
}
