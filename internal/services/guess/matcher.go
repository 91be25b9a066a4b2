package guess

import "strings"

// Feedback is the private near-miss hint sent to a guesser
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackOneOff
	FeedbackWarmer
)

// Message returns the text shown to the guesser, empty for FeedbackNone
func (f Feedback) Message(guess string) string {
	switch f {
	case FeedbackOneOff:
		return "'" + guess + "' is one letter off!"
	case FeedbackWarmer:
		return "'" + guess + "' is close, you're getting warmer"
	default:
		return ""
	}
}

// Normalize trims and lower-cases text for comparison
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matches reports whether guess is the word, ignoring case and surrounding space
func Matches(guess, word string) bool {
	w := Normalize(word)
	return w != "" && Normalize(guess) == w
}

// NearMiss classifies how close an incorrect guess is to the word
func NearMiss(guess, word string) Feedback {
	d := Distance(Normalize(guess), Normalize(word))
	switch {
	case d == 1:
		return FeedbackOneOff
	case d > 1 && d <= 3:
		return FeedbackWarmer
	default:
		return FeedbackNone
	}
}

// Distance is the Levenshtein edit distance between a and b over runes
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
