package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
)

func strPtr(s string) *string { return &s }

func TestPartitionSeriesSplitsByHostAndCategory(t *testing.T) {
	bundleEligible := models.EventSeries{ID: "series:1", CategoryID: strPtr("category:abc")}
	bundleEligible.Host.ID = "host:1"

	missingCategory := models.EventSeries{ID: "series:2"}
	missingCategory.Host.ID = "host:1"

	missingHost := models.EventSeries{ID: "series:3", CategoryID: strPtr("category:abc")}

	emptyCategory := models.EventSeries{ID: "series:4", CategoryID: strPtr("")}
	emptyCategory.Host.ID = "host:1"

	grouped, ungrouped := partitionSeries([]models.EventSeries{
		bundleEligible, missingCategory, missingHost, emptyCategory,
	})

	assert.Len(t, grouped, 1)
	assert.Equal(t, "series:1", grouped[0].ID)

	assert.Len(t, ungrouped, 3)
	ids := []string{ungrouped[0].ID, ungrouped[1].ID, ungrouped[2].ID}
	assert.ElementsMatch(t, []string{"series:2", "series:3", "series:4"}, ids)
}

func TestPartitionSeriesEmptyInput(t *testing.T) {
	grouped, ungrouped := partitionSeries(nil)
	assert.Empty(t, grouped)
	assert.Empty(t, ungrouped)
}

func TestTagsArgReturnsNilForEmpty(t *testing.T) {
	assert.Nil(t, tagsArg(nil))
	assert.Nil(t, tagsArg([]string{}))
}

func TestTagsArgPassesThroughNonEmpty(t *testing.T) {
	assert.Equal(t, []string{"go", "rust"}, tagsArg([]string{"go", "rust"}))
}

func TestNewClampsInvalidExploitRatio(t *testing.T) {
	for _, ratio := range []float64{0, -1, 1.5} {
		svc := New(nil, ratio)
		assert.Equal(t, defaultExploitRatio, svc.exploit)
	}
}

func TestNewKeepsValidExploitRatio(t *testing.T) {
	svc := New(nil, 0.6)
	assert.Equal(t, 0.6, svc.exploit)
}
