// Package textutil holds the small string helpers shared by the parser and
// the prompt builder: sentence trimming, slugs and display casing.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slug lowercases s and collapses every run of non-alphanumerics to a dash.
func Slug(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Truncate caps s at n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

// FirstSentence returns the leading sentence of s, terminator included.
func FirstSentence(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if isTerminal(r) && (i+1 == len(s) || s[i+1] == ' ' || s[i+1] == '\n') {
			return strings.TrimSpace(s[:i+1])
		}
	}
	return s
}

// SentenceAround returns the sentence of s that contains byte offset pos.
func SentenceAround(s string, pos int) string {
	if pos < 0 || pos > len(s) {
		return ""
	}
	start := 0
	for i := pos - 1; i >= 0; i-- {
		if isTerminal(rune(s[i])) && i+1 < len(s) && s[i+1] == ' ' {
			start = i + 1
			break
		}
	}
	end := len(s)
	for i := pos; i < len(s); i++ {
		if isTerminal(rune(s[i])) && (i+1 == len(s) || s[i+1] == ' ' || s[i+1] == '\n') {
			end = i + 1
			break
		}
	}
	return strings.TrimSpace(s[start:end])
}

// Display turns screenplay-cased names ("MAYA CHEN") into "Maya Chen".
// Mixed-case input is returned unchanged.
func Display(name string) string {
	name = strings.TrimSpace(name)
	if !IsAllCaps(name) {
		return name
	}
	return cases.Title(language.Und).String(strings.ToLower(name))
}

// IsAllCaps reports whether every letter in s is uppercase.
func IsAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return hasLetter
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
