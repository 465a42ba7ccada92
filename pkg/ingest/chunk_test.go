package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/pulsefeed/pkg/sources"
)

// recordingAdapter returns no payloads and records every window it is asked
// to fetch.
type recordingAdapter struct {
	windows []sources.Window
}

func (a *recordingAdapter) SourceID() string { return "s1" }

func (a *recordingAdapter) FetchRawEvents(_ context.Context, window sources.Window) ([]sources.RawEventPayload, error) {
	a.windows = append(a.windows, window)
	return nil, nil
}

func (a *recordingAdapter) Normalize(sources.RawEventPayload) (sources.NormalizedEvent, error) {
	return sources.NormalizedEvent{}, nil
}

func TestStatsAddAccumulates(t *testing.T) {
	s := Stats{Fetched: 1, Created: 1}
	s.add(Stats{Fetched: 2, Updated: 1, Skipped: 1})
	assert.Equal(t, Stats{Fetched: 3, Created: 1, Updated: 1, Skipped: 1}, s)
}

func TestContentHashDeterministicAndSensitive(t *testing.T) {
	a := contentHash([]byte(`{"title":"Yoga"}`))
	b := contentHash([]byte(`{"title":"Yoga"}`))
	c := contentHash([]byte(`{"title":"Pilates"}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestMergeMetadataAddsContentHashWithoutMutatingInput(t *testing.T) {
	original := map[string]any{"llmUsed": true}
	merged := mergeMetadata(original, "abc123")

	assert.Equal(t, "abc123", merged["contentHash"])
	assert.Equal(t, true, merged["llmUsed"])
	_, hasHash := original["contentHash"]
	assert.False(t, hasHash)
}

func TestRunChunkedCoversSpanExclusiveRightBoundary(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 15)

	adapter := &recordingAdapter{}
	o := &Orchestrator{}
	_, err := o.RunChunked(context.Background(), adapter, sources.Window{Start: start, EndExclusive: end}, 7, false)
	require.NoError(t, err)

	var windows []time.Duration
	cursor := start
	for _, w := range adapter.windows {
		assert.Equal(t, cursor, w.Start, "each chunk starts where the previous one ended")
		windows = append(windows, w.EndExclusive.Sub(w.Start))
		cursor = w.EndExclusive
	}

	assert.Equal(t, end, cursor)
	assert.Equal(t, []time.Duration{7 * 24 * time.Hour, 7 * 24 * time.Hour, 1 * 24 * time.Hour}, windows)
}
