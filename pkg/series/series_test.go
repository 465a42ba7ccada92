package series

import (
	"strings"
	"testing"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildSeriesIDShortTitle(t *testing.T) {
	id := BuildSeriesID("host:abc123", "Community Yoga in the Park")
	assert.Equal(t, "host:abc123__community-yoga-in-the-park", id)
}

func TestBuildSeriesIDTruncatesAndHashesLongTitles(t *testing.T) {
	longTitle := strings.Repeat("Very Long Event Title ", 30)
	id := BuildSeriesID("host:abc123", longTitle)
	assert.LessOrEqual(t, len(id), maxSeriesIDLength)
	assert.Contains(t, id, "-")
}

func TestMergeOccurrencesSortsCapsAndEvictsStale(t *testing.T) {
	now := time.Now().UTC()
	existing := []models.Occurrence{
		{EventID: "e1", StartTime: now.Add(48 * time.Hour)},
		{EventID: "e2", StartTime: now.Add(-48 * time.Hour)}, // stale, should be evicted
	}
	next := models.Occurrence{EventID: "e3", StartTime: now.Add(24 * time.Hour)}

	merged := mergeOccurrences(existing, next)

	ids := make([]string, len(merged))
	for i, o := range merged {
		ids[i] = o.EventID
	}
	assert.Equal(t, []string{"e3", "e1"}, ids)
}

func TestMergeOccurrencesTieBreaksByEventIDLexically(t *testing.T) {
	start := time.Now().UTC().Add(24 * time.Hour)
	existing := []models.Occurrence{{EventID: "z1", StartTime: start}}
	next := models.Occurrence{EventID: "a1", StartTime: start}

	merged := mergeOccurrences(existing, next)
	assert.Equal(t, "a1", merged[0].EventID)
	assert.Equal(t, "z1", merged[1].EventID)
}

func TestMergeOccurrencesCapsAtMax(t *testing.T) {
	now := time.Now().UTC()
	var existing []models.Occurrence
	for i := 0; i < models.MaxUpcomingOccurrences; i++ {
		existing = append(existing, models.Occurrence{
			EventID:   string(rune('a' + i)),
			StartTime: now.Add(time.Duration(i) * time.Hour),
		})
	}
	next := models.Occurrence{EventID: "zz", StartTime: now.Add(time.Hour)}

	merged := mergeOccurrences(existing, next)
	assert.Len(t, merged, models.MaxUpcomingOccurrences)
}

func TestRefreshNextPopulatesFromFirstOccurrence(t *testing.T) {
	s := &models.EventSeries{
		UpcomingOccurrences: []models.Occurrence{
			{EventID: "e1", StartTime: time.Now().UTC()},
		},
	}
	refreshNext(s)
	assert.Equal(t, 1, s.Stats.UpcomingCount)
	assert.NotNil(t, s.NextOccurrence)
	assert.Equal(t, "e1", s.NextOccurrence.EventID)
}

func TestRefreshNextEmptyClearsFields(t *testing.T) {
	s := &models.EventSeries{}
	refreshNext(s)
	assert.Equal(t, 0, s.Stats.UpcomingCount)
	assert.Nil(t, s.NextOccurrence)
	assert.Nil(t, s.NextStartTime)
}

func TestUnionSortedDedupesAndSorts(t *testing.T) {
	out := unionSorted([]string{"b", "a"}, []string{"a", "c", ""})
	assert.Equal(t, []string{"a", "b", "c"}, out)
}
