package nlp

import (
	"regexp"
	"strings"
)

var (
	reNonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	reSpaces  = regexp.MustCompile(`\s+`)
)

// NormalizeText lowercases s, replaces every non letter/digit run with a
// single space and trims. Used for word-level comparisons.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	s = reNonWord.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Fold lowercases s and collapses whitespace but keeps punctuation, so that
// names like "c++", "node.js" or "ci/cd" survive substring matching.
func Fold(s string) string {
	s = strings.ToLower(s)
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
