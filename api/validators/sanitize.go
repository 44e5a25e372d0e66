package validators

import (
	"strings"
	"unicode"
)

// NormalizeSearch collapses whitespace runs, drops control characters and
// caps the term at maxRunes runes without splitting a multi-byte character.
func NormalizeSearch(input string, maxRunes int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, input)

	term := []rune(strings.Join(strings.Fields(cleaned), " "))
	if maxRunes > 0 && len(term) > maxRunes {
		term = []rune(strings.TrimSpace(string(term[:maxRunes])))
	}
	return string(term)
}
