// Package browse implements the headless project-browsing engine: text
// normalization, combined tag/text filtering, debounced search, and view
// model production. It holds no presentation concerns; a UI layer consumes
// the data structures it emits.
package browse

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s and strips diacritical marks, so "Café" and "cafe"
// compare equal. Idempotent and total: if the transform chain fails on
// malformed input, the lowercased input is returned unchanged.
func Normalize(s string) string {
	s = strings.ToLower(s)
	// NFD decomposition, drop combining marks, recompose. The chain carries
	// internal buffers, so it is built per call rather than shared.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
