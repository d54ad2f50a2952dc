package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName converts arbitrary header text into a lowercase ASCII
// identifier suitable for column and table names:
//  1. lowercase
//  2. strip accents (NFD -> remove Mn -> NFC)
//  3. keep [a-z0-9_]; convert space/dash/dot to underscore; drop others
//  4. fall back to "col" if nothing remains
//
// "paintQuality%" becomes "paintquality"; the dictionary maps raw headers to
// their preferred canonical names before this fallback applies.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose, remove nonspacing marks (accents), recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevUnderscore = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	return name
}
