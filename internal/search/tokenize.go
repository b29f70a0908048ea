// Package search ranks notes and tasks against a free-text query using a
// bag-of-words vector space model and cosine similarity.
package search

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases text, drops every character that is not an ASCII
// letter, digit or whitespace, and splits the rest on whitespace runs.
// Dropped characters do not separate words: "don't" becomes "dont".
// Whitespace is the set browsers match with \s: the Unicode White_Space
// characters without U+0085, plus U+FEFF.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case isSpace(r):
			b.WriteRune(r)
		}
	}
	tokens := strings.FieldsFunc(b.String(), isSpace)
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func isSpace(r rune) bool {
	switch r {
	case '\ufeff':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}
