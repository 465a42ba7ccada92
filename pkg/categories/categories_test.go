package categories

import (
	"fmt"
	"testing"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryIDDeterministic(t *testing.T) {
	a := CategoryID("host:abc", "Live Music")
	b := CategoryID("host:abc", "Live Music")
	assert.Equal(t, a, b)

	c := CategoryID("host:abc", "Art Walks")
	assert.NotEqual(t, a, c)
}

func TestMatchExistingIsCaseAndAccentInsensitive(t *testing.T) {
	existing := []models.EventCategory{
		{ID: "category:1", Name: "Live Music"},
		{ID: "category:2", Name: "Art Walks"},
	}

	matched := matchExisting(existing, "LIVE MUSIC")
	require.NotNil(t, matched)
	assert.Equal(t, "category:1", matched.ID)

	noMatch := matchExisting(existing, "Food Trucks")
	assert.Nil(t, noMatch)
}

func TestPrependSampleDedupesAndCaps(t *testing.T) {
	samples := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	out := prependSample(samples, "Z")
	assert.Equal(t, "Z", out[0])
	assert.Len(t, out, models.MaxSampleSeriesTitles)
}

func TestPrependSampleDedupesExistingTitle(t *testing.T) {
	out := prependSample([]string{"A", "B"}, "A")
	assert.Equal(t, []string{"A", "B"}, out)
}

func TestToOptionsCapsSampleTitles(t *testing.T) {
	existing := []models.EventCategory{
		{Name: "Live Music", SampleSeriesTitles: []string{"1", "2", "3", "4", "5", "6", "7"}},
	}
	opts := toOptions(existing)
	require.Len(t, opts, 1)
	assert.Len(t, opts[0].SampleTitles, maxExistingCategorySamples)
}

func TestUnionTagsDedupesAndPreservesExistingOrder(t *testing.T) {
	out := unionTags([]string{"jazz", "live"}, []string{"live", "outdoor"})
	assert.Equal(t, []string{"jazz", "live", "outdoor"}, out)
}

func TestUnionTagsWithNilExistingSeedsFromAdditions(t *testing.T) {
	out := unionTags(nil, []string{"jazz", "jazz", "outdoor"})
	assert.Equal(t, []string{"jazz", "outdoor"}, out)
}

func TestUnionTagsCapsAtMaxCategoryTags(t *testing.T) {
	existing := make([]string, models.MaxCategoryTags)
	for i := range existing {
		existing[i] = fmt.Sprintf("tag%d", i)
	}
	out := unionTags(existing, []string{"overflow"})
	assert.Len(t, out, models.MaxCategoryTags)
}
