package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketTimeOfDay(t *testing.T) {
	cases := map[int]TimeOfDay{
		0: TimeOfDayNight, 5: TimeOfDayNight,
		6: TimeOfDayMorning, 11: TimeOfDayMorning,
		12: TimeOfDayAfternoon, 17: TimeOfDayAfternoon,
		18: TimeOfDayEvening, 21: TimeOfDayEvening,
		22: TimeOfDayNight, 23: TimeOfDayNight,
	}
	for hour, want := range cases {
		assert.Equal(t, want, BucketTimeOfDay(hour), "hour %d", hour)
	}
}

func TestDeriveEngagementStyle(t *testing.T) {
	s := DeriveEngagementStyle(15, 25)
	assert.True(t, s.IsDeepReader)
	assert.False(t, s.QuickBrowser)
	assert.True(t, s.ScrollsDeep)

	s = DeriveEngagementStyle(1, 5)
	assert.False(t, s.IsDeepReader)
	assert.True(t, s.QuickBrowser)
	assert.False(t, s.ScrollsDeep)
}

func TestAppendBreadcrumbCap(t *testing.T) {
	var chain []Breadcrumb
	for i := 0; i < maxBreadcrumbs+5; i++ {
		chain = AppendBreadcrumb(chain, Breadcrumb{Type: "fetch", FetchedAt: time.Now()})
	}
	require.Len(t, chain, maxBreadcrumbs)
}

func TestTagProposalPrependSampleDedupAndCap(t *testing.T) {
	p := &TagProposal{}
	for i := 0; i < MaxSampleEvents+3; i++ {
		p.PrependSample(SampleEvent{EventID: "e1", Title: "same event"})
	}
	require.Len(t, p.SampleEvents, 1, "duplicate eventId must not grow the list")

	for i := 0; i < MaxSampleEvents+3; i++ {
		p.PrependSample(SampleEvent{EventID: string(rune('a' + i)), Title: "distinct"})
	}
	assert.Len(t, p.SampleEvents, MaxSampleEvents)
}

func TestEventCategoryRemoveSeries(t *testing.T) {
	c := &EventCategory{SeriesIDs: []string{"a", "b", "c"}}
	c.RemoveSeries("b")
	assert.Equal(t, []string{"a", "c"}, c.SeriesIDs)
	assert.True(t, c.HasSeries("a"))
	assert.False(t, c.HasSeries("b"))
}

func TestHasEnoughDataForPersonalization(t *testing.T) {
	var nilProfile *UserProfile
	assert.False(t, nilProfile.HasEnoughDataForPersonalization())

	p := &UserProfile{TotalInteractions: 19}
	assert.False(t, p.HasEnoughDataForPersonalization())
	p.TotalInteractions = 20
	assert.True(t, p.HasEnoughDataForPersonalization())
}

func TestCanonicalEventTitleFallback(t *testing.T) {
	e := &CanonicalEvent{}
	assert.Equal(t, "Untitled Event", e.TitleOrFallback())
	e.Title = "Yoga"
	assert.Equal(t, "Yoga", e.TitleOrFallback())
}
