package profile

import (
	"testing"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/stretchr/testify/assert"
)

func dwell(v float64) *float64 { return &v }

func TestContentTypeAffinityWeightedAverage(t *testing.T) {
	interactions := []models.UserInteraction{
		{ContentType: models.ContentTypeEvent, Action: models.ActionLiked},     // +3
		{ContentType: models.ContentTypeEvent, Action: models.ActionViewed},    // +0.1
		{ContentType: models.ContentTypeEventSeries, Action: models.ActionDismissed}, // -2
	}
	out := contentTypeAffinity(interactions)
	assert.InDelta(t, (3+0.1)/2/10, out[models.ContentTypeEvent], 0.0001)
	assert.InDelta(t, -0.2, out[models.ContentTypeEventSeries], 0.0001)
}

func TestContentTypeAffinityClampsToUnitRange(t *testing.T) {
	var interactions []models.UserInteraction
	for i := 0; i < 5; i++ {
		interactions = append(interactions, models.UserInteraction{ContentType: models.ContentTypeEvent, Action: models.ActionAttended})
	}
	out := contentTypeAffinity(interactions)
	assert.Equal(t, 1.0, out[models.ContentTypeEvent])
}

func TestTimeOfDayPatternsHistogram(t *testing.T) {
	interactions := []models.UserInteraction{
		{Context: models.InteractionContext{TimeOfDay: models.TimeOfDayMorning}},
		{Context: models.InteractionContext{TimeOfDay: models.TimeOfDayMorning}},
		{Context: models.InteractionContext{TimeOfDay: models.TimeOfDayNight}},
	}
	out := timeOfDayPatterns(interactions)
	assert.Equal(t, 2, out[models.TimeOfDayMorning])
	assert.Equal(t, 1, out[models.TimeOfDayNight])
}

func TestEngagementStyleDeepReader(t *testing.T) {
	interactions := []models.UserInteraction{
		{DwellTime: dwell(15), Context: models.InteractionContext{Position: 5}},
		{DwellTime: dwell(20), Context: models.InteractionContext{Position: 5}},
	}
	style := engagementStyle(interactions)
	assert.True(t, style.IsDeepReader)
	assert.False(t, style.QuickBrowser)
}

func TestEngagementStyleQuickBrowser(t *testing.T) {
	interactions := []models.UserInteraction{
		{DwellTime: dwell(1), Context: models.InteractionContext{Position: 2}},
	}
	style := engagementStyle(interactions)
	assert.True(t, style.QuickBrowser)
	assert.False(t, style.IsDeepReader)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, -1.0, clamp(-5, -1, 1))
	assert.Equal(t, 1.0, clamp(5, -1, 1))
	assert.Equal(t, 0.5, clamp(0.5, -1, 1))
}
