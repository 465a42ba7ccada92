// Package slug implements the tag-slug normalization and stop-word
// filtering rules shared by the classifier gateway (C2), the event store
// (C4), and the tag-proposal recorder (C3).
package slug

import (
	"regexp"
	"strings"
)

// MinLength is the minimum accepted slug length. Anything shorter collapses
// to the empty string.
const MinLength = 4

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
var edgeDashes = regexp.MustCompile(`^-+|-+$`)

// Slugify lower-cases s, collapses runs of non-alphanumeric characters to a
// single '-', trims leading/trailing '-', and rejects results shorter than
// MinLength. Slugify is idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(s string) string {
	lower := strings.ToLower(s)
	collapsed := nonAlphanumeric.ReplaceAllString(lower, "-")
	trimmed := edgeDashes.ReplaceAllString(collapsed, "")
	if len(trimmed) < MinLength {
		return ""
	}
	return trimmed
}

// NormalizeTags slugifies each input tag, drops empties and stop-words,
// then returns a sorted, deduplicated set. blocklist is the per-deployment
// addition to the built-in stop-word set.
func NormalizeTags(tags []string, blocklist []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		s := Slugify(t)
		if s == "" || IsStopWord(s, blocklist) || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sortStrings(out)
	return out
}

// IsStopWord reports whether slug (already normalized) matches the built-in
// stop-word set or the deployment-specific blocklist.
func IsStopWord(s string, blocklist []string) bool {
	if builtinStopWords[s] {
		return true
	}
	for _, b := range blocklist {
		if Slugify(b) == s {
			return true
		}
	}
	return false
}

func sortStrings(s []string) {
	// insertion sort is fine here: tag lists are small (capped well under
	// 100 entries throughout the pipeline).
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
