package hint

import (
	"strings"
	"unicode"
)

// Placeholder stands in for a letter that has not been revealed
const Placeholder = '_'

// Mask renders word with every unrevealed non-space position replaced by
// Placeholder. Positions are rune indices and are joined by a single space.
func Mask(word string, revealed map[int]bool) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(runes) * 2)
	for i, r := range runes {
		if i > 0 {
			b.WriteByte(' ')
		}
		if unicode.IsSpace(r) || revealed[i] {
			b.WriteRune(r)
		} else {
			b.WriteRune(Placeholder)
		}
	}
	return b.String()
}

// Letters returns the indices of the non-space runes in word
func Letters(word string) []int {
	var out []int
	for i, r := range []rune(word) {
		if !unicode.IsSpace(r) {
			out = append(out, i)
		}
	}
	return out
}
