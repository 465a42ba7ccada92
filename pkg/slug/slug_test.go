package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyBasic(t *testing.T) {
	assert.Equal(t, "live-music", Slugify("Live Music!"))
	assert.Equal(t, "yoga", Slugify("  yoga  "))
	assert.Equal(t, "", Slugify("a"), "too short after slugification")
	assert.Equal(t, "", Slugify("--"))
}

func TestSlugifyIdempotent(t *testing.T) {
	cases := []string{"Live Music!", "  Community Yoga  ", "R&B / Jazz Night", "x"}
	for _, c := range cases {
		once := Slugify(c)
		twice := Slugify(once)
		assert.Equal(t, once, twice, "slugify must be idempotent for %q", c)
	}
}

func TestSlugifyLengthLaw(t *testing.T) {
	for _, s := range []string{"", "a", "ab", "abc"} {
		assert.Equal(t, "", Slugify(s))
	}
	assert.NotEqual(t, "", Slugify("abcd"))
}

func TestNormalizeTagsFiltersStopWordsAndDuplicates(t *testing.T) {
	got := NormalizeTags([]string{"Yoga", "yoga", "Event", "Monday", "Wellness"}, nil)
	assert.Equal(t, []string{"wellness", "yoga"}, got)
}

func TestNormalizeTagsAppliesBlocklist(t *testing.T) {
	got := NormalizeTags([]string{"yoga", "sponsored-content"}, []string{"Sponsored Content"})
	assert.Equal(t, []string{"yoga"}, got)
}

func TestFoldNameCaseAccentInsensitive(t *testing.T) {
	assert.Equal(t, FoldName("Café Society"), FoldName("CAFE SOCIETY"))
	assert.Equal(t, "cafe society", FoldName("Café   Society"))
}

func TestIsStopWordBuiltin(t *testing.T) {
	assert.True(t, IsStopWord("monday", nil))
	assert.True(t, IsStopWord("event", nil))
	assert.False(t, IsStopWord("yoga", nil))
}
