// Package slug derives URL-safe, deterministic identifiers from heading text.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text (NFKD) and removes combining marks so that
// accented letters reduce to their ASCII base before filtering.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts heading text into a lowercase, hyphenated identifier.
// The same text always yields the same identifier, within and across renders.
func Make(text string) string {
	if folded, _, err := transform.String(stripMarks, text); err == nil {
		text = folded
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	return strings.Trim(strings.Join(fields, "-"), "-")
}
