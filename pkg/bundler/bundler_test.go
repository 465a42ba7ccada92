package bundler

import (
	"testing"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestPartitionGroupsByHostAndCategorySkippingUngrouped(t *testing.T) {
	candidates := []models.EventSeries{
		{ID: "s1", Host: models.HostInfo{ID: "h1"}, CategoryID: strptr("c1")},
		{ID: "s2", Host: models.HostInfo{ID: "h1"}, CategoryID: strptr("c1")},
		{ID: "s3", Host: models.HostInfo{ID: "h1"}, CategoryID: strptr("c2")},
		{ID: "s4", Host: models.HostInfo{ID: "h2"}},
	}
	groups := partition(candidates)
	assert.Len(t, groups, 2)
	assert.Equal(t, "c1", groups[0].categoryID)
	assert.Len(t, groups[0].series, 2)
	assert.Equal(t, "c2", groups[1].categoryID)
}

func TestDiffNewSeriesNilStateMeansEntireSet(t *testing.T) {
	cat := &models.EventCategory{SeriesIDs: []string{"a", "b"}}
	assert.ElementsMatch(t, []string{"a", "b"}, diffNewSeries(cat, nil))
}

func TestDiffNewSeriesUnionsChangeLogAboveLastSeen(t *testing.T) {
	cat := &models.EventCategory{
		Version:   3,
		SeriesIDs: []string{"a", "b", "c"},
		ChangeLog: []models.ChangeLogEntry{
			{Version: 1, AddedSeriesIDs: []string{"a"}},
			{Version: 2, AddedSeriesIDs: []string{"b"}},
			{Version: 3, AddedSeriesIDs: []string{"c"}},
		},
	}
	state := &models.UserCategoryBundleState{LastSeenVersion: 1}
	assert.ElementsMatch(t, []string{"b", "c"}, diffNewSeries(cat, state))
}

func TestDiffNewSeriesFallsBackToFullSetWhenChangeLogMissesGap(t *testing.T) {
	cat := &models.EventCategory{
		Version:   5,
		SeriesIDs: []string{"a", "b"},
		ChangeLog: []models.ChangeLogEntry{
			{Version: 1, AddedSeriesIDs: []string{"a"}},
		},
	}
	state := &models.UserCategoryBundleState{LastSeenVersion: 3}
	assert.ElementsMatch(t, []string{"a", "b"}, diffNewSeries(cat, state))
}

func TestDiffNewSeriesCaughtUpReturnsEmpty(t *testing.T) {
	cat := &models.EventCategory{Version: 2, SeriesIDs: []string{"a"}}
	state := &models.UserCategoryBundleState{LastSeenVersion: 2}
	assert.Empty(t, diffNewSeries(cat, state))
}

func TestMeanEmbeddingAveragesElementwise(t *testing.T) {
	members := []models.EventSeries{
		{Vector: []float64{1, 2, 3}},
		{Vector: []float64{3, 4, 5}},
	}
	assert.Equal(t, []float64{2, 3, 4}, meanEmbedding(members))
}

func TestMeanEmbeddingNoVectorsReturnsNil(t *testing.T) {
	members := []models.EventSeries{{}, {}}
	assert.Nil(t, meanEmbedding(members))
}

func TestUnionTagsDedupesAndSorts(t *testing.T) {
	members := []models.EventSeries{
		{Tags: []string{"music", "jazz"}},
		{Tags: []string{"jazz", "live"}},
	}
	assert.Equal(t, []string{"jazz", "live", "music"}, unionTags(members))
}

func TestSumStatsSumsElementwise(t *testing.T) {
	members := []models.EventSeries{
		{},
		{},
	}
	assert.Equal(t, models.ContentStats{}, sumStats(members))
}

func TestBuildBundleFirstTimeUsesFullSetAsDisplay(t *testing.T) {
	cat := &models.EventCategory{ID: "cat1", Name: "Jazz Nights", Version: 1, UpdatedAt: time.Now()}
	members := []models.EventSeries{
		{ID: "s1", Host: models.HostInfo{Name: "Blue Note"}},
		{ID: "s2"},
	}
	bundle := buildBundle(cat, "h1", members, []string{"s1", "s2"})
	assert.Equal(t, "bundle:cat1", bundle.ID)
	assert.Equal(t, "Jazz Nights · Blue Note", bundle.Title)
	assert.ElementsMatch(t, []string{"s1", "s2"}, bundle.Metadata.DisplaySeries)
	assert.Equal(t, 2, bundle.Metadata.TotalSeriesCount)
}

func TestBuildBundlePartialDiffOnlyDisplaysNew(t *testing.T) {
	cat := &models.EventCategory{ID: "cat1", Name: "Jazz Nights", Version: 3, UpdatedAt: time.Now()}
	members := []models.EventSeries{
		{ID: "s1"},
		{ID: "s2"},
		{ID: "s3"},
	}
	bundle := buildBundle(cat, "h1", members, []string{"s3"})
	assert.Equal(t, []string{"s3"}, bundle.Metadata.DisplaySeries)
	assert.Equal(t, 3, bundle.Metadata.TotalSeriesCount)
}

func TestEqualSetIgnoresOrder(t *testing.T) {
	assert.True(t, equalSet([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, equalSet([]string{"a"}, []string{"a", "b"}))
}
