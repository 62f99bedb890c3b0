// file: internal/resolver/normalize.go
// version: 1.0.0
// guid: 9d1e2f3a-4b5c-6d7e-8f9a-0b1c2d3e4f5a

package resolver

import "strings"

// Normalize trims, lower-cases, and strips every rune that is not an ASCII
// letter, digit, or whitespace. Punctuation disappears entirely, so
// "O'Connor" becomes "oconnor" and "Sarah-Jane" becomes "sarahjane".
// Internal whitespace is preserved. Idempotent.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		}
	}
	// Stripping can expose new edge whitespace ("Bob !" -> "bob "); trim
	// again so Normalize is idempotent.
	return strings.TrimSpace(b.String())
}

// FirstToken normalizes name and returns its first whitespace-separated
// token, or the normalized string itself when there is nothing to split.
func FirstToken(name string) string {
	n := Normalize(name)
	fields := strings.Fields(n)
	if len(fields) == 0 {
		return n
	}
	return fields[0]
}
