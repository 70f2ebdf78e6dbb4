package contentguard

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrContentRejected is matched (via errors.Is) by every *RejectedError.
var ErrContentRejected = errors.New("content contains blacklisted words")

// Field names reported in RejectedError.
const (
	FieldTitle = "title"
	FieldBody  = "body"
)

// RejectedError reports which field tripped the blacklist and on which word.
type RejectedError struct {
	Field       string
	MatchedWord string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s contains blacklisted word %q", e.Field, e.MatchedWord)
}

// Is lets callers match with errors.Is(err, ErrContentRejected).
func (e *RejectedError) Is(target error) bool {
	return target == ErrContentRejected
}

type entry struct {
	word string
	re   *regexp.Regexp
}

// Matcher is a compiled blacklist snapshot. It is immutable and safe for
// concurrent use.
type Matcher struct {
	entries []entry
}

// NewMatcher compiles every non-blank word in words. Blank words are skipped;
// duplicates (after normalization) are compiled once.
func NewMatcher(words []string) (*Matcher, error) {
	m := &Matcher{entries: make([]entry, 0, len(words))}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		n := NormalizeWord(w)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		re, err := CompileFlexiblePattern(n)
		if err != nil {
			return nil, err
		}
		m.entries = append(m.entries, entry{word: n, re: re})
	}
	return m, nil
}

// Len returns the number of compiled words.
func (m *Matcher) Len() int { return len(m.entries) }

// Match returns the first blacklisted word found in text, in blacklist order.
func (m *Matcher) Match(text string) (string, bool) {
	if m == nil || len(m.entries) == 0 || text == "" {
		return "", false
	}
	text = lower(text)
	for _, e := range m.entries {
		if e.re.MatchString(text) {
			return e.word, true
		}
	}
	return "", false
}

// Validate checks title and then body. It returns *RejectedError for the
// first field that matches.
func (m *Matcher) Validate(title, body string) error {
	if w, ok := m.Match(title); ok {
		return &RejectedError{Field: FieldTitle, MatchedWord: w}
	}
	if w, ok := m.Match(body); ok {
		return &RejectedError{Field: FieldBody, MatchedWord: w}
	}
	return nil
}

// FirstMatch returns the first word of blacklist found in text. Words are
// compiled one at a time and scanning stops at the first hit.
func FirstMatch(text string, blacklist []string) (string, bool) {
	if text == "" {
		return "", false
	}
	text = lower(text)
	for _, w := range blacklist {
		re, err := CompileFlexiblePattern(w)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			return NormalizeWord(w), true
		}
	}
	return "", false
}

// ContainsBlacklistedWord reports whether any word of blacklist matches text.
func ContainsBlacklistedWord(text string, blacklist []string) bool {
	_, ok := FirstMatch(text, blacklist)
	return ok
}

// ValidateSubmission rejects title or body when either contains a
// blacklisted word.
func ValidateSubmission(title, body string, blacklist []string) error {
	if w, ok := FirstMatch(title, blacklist); ok {
		return &RejectedError{Field: FieldTitle, MatchedWord: w}
	}
	if w, ok := FirstMatch(body, blacklist); ok {
		return &RejectedError{Field: FieldBody, MatchedWord: w}
	}
	return nil
}
