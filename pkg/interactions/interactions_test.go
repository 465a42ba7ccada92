package interactions

import (
	"testing"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInteraction() models.UserInteraction {
	return models.UserInteraction{
		UserID:      "u1",
		ContentID:   "c1",
		ContentType: models.ContentTypeEvent,
		Action:      models.ActionViewed,
		Context:     models.InteractionContext{Position: 0, TimeOfDay: models.TimeOfDayMorning, DayOfWeek: "monday"},
	}
}

func TestValidateAcceptsWellFormedInteraction(t *testing.T) {
	assert.NoError(t, Validate(validInteraction()))
}

func TestValidateRejectsEmptyUserID(t *testing.T) {
	in := validInteraction()
	in.UserID = ""
	err := Validate(in)
	require.Error(t, err)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "userId", ve.Field)
}

func TestValidateRejectsUnknownContentType(t *testing.T) {
	in := validInteraction()
	in.ContentType = "not-a-type"
	assert.Error(t, Validate(in))
}

func TestValidateRejectsUnknownAction(t *testing.T) {
	in := validInteraction()
	in.Action = "not-an-action"
	assert.Error(t, Validate(in))
}

func TestValidateRejectsNegativePosition(t *testing.T) {
	in := validInteraction()
	in.Context.Position = -1
	assert.Error(t, Validate(in))
}

func TestValidateRejectsUnknownTimeOfDay(t *testing.T) {
	in := validInteraction()
	in.Context.TimeOfDay = "midnight-snack"
	assert.Error(t, Validate(in))
}

func TestValidateBundleRequiresBundleState(t *testing.T) {
	in := validInteraction()
	in.ContentType = models.ContentTypeCategoryBundle
	in.Action = models.ActionViewed
	in.Metadata = nil
	assert.Error(t, Validate(in))
}

func TestValidateBundleAcceptsWellFormedState(t *testing.T) {
	in := validInteraction()
	in.ContentType = models.ContentTypeCategoryBundle
	in.Metadata = map[string]any{"bundleState": map[string]any{"categoryId": "cat1", "version": float64(3)}}
	assert.NoError(t, Validate(in))
}

func TestValidateBatchRejectsOverHundred(t *testing.T) {
	batch := make([]models.UserInteraction, 101)
	for i := range batch {
		batch[i] = validInteraction()
	}
	assert.ErrorIs(t, ValidateBatch(batch), errTooManyInBatch)
}

func TestValidateBatchRejectsEmpty(t *testing.T) {
	assert.Error(t, ValidateBatch(nil))
}

func TestMetadataBoolDefaultsWhenMissing(t *testing.T) {
	assert.True(t, metadataBool(nil, "active", true))
	assert.True(t, metadataBool(map[string]any{"active": true}, "active", false))
	assert.False(t, metadataBool(map[string]any{"active": false}, "active", true))
}

func TestBundleStateExtractsCategoryAndVersion(t *testing.T) {
	categoryID, version, ok := bundleState(map[string]any{"bundleState": map[string]any{"categoryId": "cat1", "version": float64(5)}})
	assert.True(t, ok)
	assert.Equal(t, "cat1", categoryID)
	assert.Equal(t, 5, version)
}

func TestBundleStateMissingReturnsFalse(t *testing.T) {
	_, _, ok := bundleState(nil)
	assert.False(t, ok)
}

func TestResolveWindowTodayIsHalfOpenCalendarDay(t *testing.T) {
	now := time.Date(2026, 7, 31, 14, 30, 0, 0, time.UTC)
	window, err := ResolveWindow(PinnedEventsQuery{Mode: "today"}, now, "America/Los_Angeles")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, window.End.Sub(window.Start))
	assert.True(t, window.Start.Before(now))
	assert.True(t, window.End.After(now))
}

func TestResolveWindowDefaultsTo30Days(t *testing.T) {
	now := time.Now().UTC()
	window, err := ResolveWindow(PinnedEventsQuery{}, now, "America/Los_Angeles")
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, window.End.Sub(window.Start))
}

func TestResolveWindowRejectsEndBeforeStart(t *testing.T) {
	now := time.Now().UTC()
	start := now.Add(time.Hour)
	end := now
	_, err := ResolveWindow(PinnedEventsQuery{Start: &start, End: &end}, now, "America/Los_Angeles")
	assert.Error(t, err)
}

func TestSeriesTitleOfReturnsTitleWhenSeriesPresent(t *testing.T) {
	series := &models.EventSeries{Title: "Weekly Standup"}
	title := seriesTitleOf(series)
	require.NotNil(t, title)
	assert.Equal(t, "Weekly Standup", *title)
}

func TestSeriesTitleOfReturnsNilWhenSeriesAbsent(t *testing.T) {
	assert.Nil(t, seriesTitleOf(nil))
}

func TestSortPinnedEventsOrdersByStartThenPinnedAtDescThenEventID(t *testing.T) {
	now := time.Now().UTC()
	events := []models.PinnedEvent{
		{EventID: "b", EventStartTime: now, PinnedAt: now},
		{EventID: "a", EventStartTime: now, PinnedAt: now.Add(time.Hour)},
		{EventID: "c", EventStartTime: now.Add(-time.Hour), PinnedAt: now},
	}
	sortPinnedEvents(events)
	assert.Equal(t, []string{"c", "a", "b"}, []string{events[0].EventID, events[1].EventID, events[2].EventID})
}
