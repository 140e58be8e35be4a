// internal/eligibility/textsignal.go
package eligibility

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NoTier is returned by Classify when no tier matches.
const NoTier = -1

// TextSignalClassifier turns free text into discrete signals. Scoring formulas only
// see tier indexes and counts, never the text itself.
type TextSignalClassifier interface {
	// Classify returns the index of the first tier with a term found in text, or NoTier.
	Classify(text string, tiers [][]string) int
	// Count returns how many distinct terms occur in text.
	Count(text string, terms []string) int
}

// KeywordClassifier is a case-insensitive matcher. A term matches where it starts a
// word, so "art" finds "Fine Arts" but not "smart" and "urgent" finds "urgente".
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(text string, tiers [][]string) int {
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return NoTier
	}
	for i, tier := range tiers {
		for _, term := range tier {
			if containsWordPrefix(t, strings.ToLower(term)) {
				return i
			}
		}
	}
	return NoTier
}

func (KeywordClassifier) Count(text string, terms []string) int {
	t := strings.ToLower(text)
	n := 0
	for _, term := range terms {
		if term != "" && containsWordPrefix(t, strings.ToLower(term)) {
			n++
		}
	}
	return n
}

// containsWordPrefix reports whether term occurs in text at the start of a word.
func containsWordPrefix(text, term string) bool {
	if term == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return false
		}
		at := offset + i
		prev, _ := utf8.DecodeLastRuneInString(text[:at])
		if at == 0 || !(unicode.IsLetter(prev) || unicode.IsDigit(prev)) {
			return true
		}
		offset = at + 1
	}
	return false
}

// joinText concatenates non-empty fragments with a single space.
func joinText(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, " ")
}

// textLength counts characters, not bytes, so accented input is not over-credited.
func textLength(s string) float64 {
	return float64(len([]rune(strings.TrimSpace(s))))
}
