// Package search holds the text matching used by the search and chat
// endpoints.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks, so "José" and "jose" compare
// equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// Matches reports whether query occurs in any of fields, ignoring case and
// accents. An empty query matches everything.
func Matches(query string, fields ...string) bool {
	q := strings.TrimSpace(Fold(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), q) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether the folded text contains any folded keyword.
func ContainsAny(text string, keywords ...string) bool {
	folded := Fold(text)
	for _, k := range keywords {
		if strings.Contains(folded, Fold(k)) {
			return true
		}
	}
	return false
}

// LikePattern escapes q for use in a SQL ILIKE clause.
func LikePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}
