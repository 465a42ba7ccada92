package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = runes.Remove(runes.In(unicode.Mn))

// FoldName normalizes a display name for case/accent-insensitive
// comparison (C6's "case-insensitive accent-insensitive name match"): it
// decomposes accented characters, drops the resulting combining marks,
// lower-cases, and collapses whitespace. Unlike Slugify, punctuation is
// preserved and no minimum length is enforced — FoldName is for comparing
// two display names, not for producing a tag slug.
func FoldName(s string) string {
	decomposed, _, err := transform.String(norm.NFD, s)
	if err != nil {
		decomposed = s
	}
	stripped, _, err := transform.String(stripMarks, decomposed)
	if err != nil {
		stripped = decomposed
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
