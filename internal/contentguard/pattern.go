// Package contentguard decides whether user-submitted text contains a
// blacklisted word. Matching tolerates two kinds of obfuscation: repeated
// letters ("baaad") and non-word characters or underscores between letters
// ("b-a_d"). It does not tolerate letter substitution ("b4d").
//
// Patterns are not anchored to word boundaries, so a blacklisted word also
// matches inside a longer word ("ass" matches "class"). Callers that need
// stricter matching should curate the blacklist accordingly.
package contentguard

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmptyWord is returned when a blacklist word is blank. An empty pattern
// would match every text.
var ErrEmptyWord = errors.New("blacklist word is empty")

// separator matches the gap tolerated between two letters of a word.
const separator = `[\W_]*`

// NormalizeWord trims and lower-cases a blacklist word.
func NormalizeWord(word string) string {
	return lower(strings.TrimSpace(word))
}

// CompileFlexiblePattern builds the case-insensitive pattern for word: every
// rune may repeat one to three times, and consecutive runes may be separated
// by any run of non-word characters or underscores.
func CompileFlexiblePattern(word string) (*regexp.Regexp, error) {
	word = NormalizeWord(word)
	if word == "" {
		return nil, ErrEmptyWord
	}
	parts := make([]string, 0, len(word))
	for _, r := range word {
		parts = append(parts, regexp.QuoteMeta(string(r))+"{1,3}")
	}
	return regexp.Compile("(?i)" + strings.Join(parts, separator))
}

func lower(s string) string {
	// cases.Caser is stateful; build one per call.
	return cases.Lower(language.Und).String(s)
}
