package models

import "time"

// ActionType enumerates the recordable user actions on a piece of content.
type ActionType string

const (
	ActionViewed        ActionType = "viewed"
	ActionLiked         ActionType = "liked"
	ActionShared        ActionType = "shared"
	ActionBookmarked    ActionType = "bookmarked"
	ActionDismissed     ActionType = "dismissed"
	ActionNotInterested ActionType = "not-interested"
	ActionAttended      ActionType = "attended"
	ActionEngaged       ActionType = "engaged"
	ActionCommented     ActionType = "commented"
)

// ActionWeights are the per-action scalars used by the profile builder (C8)
// to compute content-type affinity. See GLOSSARY.
var ActionWeights = map[ActionType]float64{
	ActionViewed:        0.1,
	ActionLiked:         3,
	ActionShared:        5,
	ActionBookmarked:    4,
	ActionDismissed:     -2,
	ActionNotInterested: -5,
	ActionAttended:      10,
	ActionEngaged:       4,
	ActionCommented:     4,
}

// PositiveActions are the actions whose target content vectors feed the
// embedding centroid (C8).
var PositiveActions = map[ActionType]bool{
	ActionLiked:      true,
	ActionBookmarked: true,
	ActionShared:     true,
	ActionAttended:   true,
	ActionEngaged:    true,
}

// ValidActions is used by interaction validation (C11).
var ValidActions = map[ActionType]bool{
	ActionViewed: true, ActionLiked: true, ActionShared: true,
	ActionBookmarked: true, ActionDismissed: true, ActionNotInterested: true,
	ActionAttended: true, ActionEngaged: true, ActionCommented: true,
}

// TimeOfDay is the four-bucket enum used for temporal pattern tracking.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
	TimeOfDayNight     TimeOfDay = "night"
)

// ValidTimesOfDay is used by interaction validation (C11).
var ValidTimesOfDay = map[TimeOfDay]bool{
	TimeOfDayMorning: true, TimeOfDayAfternoon: true,
	TimeOfDayEvening: true, TimeOfDayNight: true,
}

// BucketTimeOfDay maps an hour-of-day (0-23, local display clock) to its
// bucket: 06-12 morning, 12-18 afternoon, 18-22 evening, else night.
func BucketTimeOfDay(hour int) TimeOfDay {
	switch {
	case hour >= 6 && hour < 12:
		return TimeOfDayMorning
	case hour >= 12 && hour < 18:
		return TimeOfDayAfternoon
	case hour >= 18 && hour < 22:
		return TimeOfDayEvening
	default:
		return TimeOfDayNight
	}
}

// ValidDaysOfWeek is used by interaction validation (C11).
var ValidDaysOfWeek = map[string]bool{
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

// InteractionContext carries the surrounding circumstances of an
// interaction, used by the ranker's time and style signals.
type InteractionContext struct {
	Position  int       `json:"position"`
	SessionID string    `json:"sessionId,omitempty"`
	TimeOfDay TimeOfDay `json:"timeOfDay"`
	DayOfWeek string    `json:"dayOfWeek,omitempty"`
}

// UserInteraction records one user action against one content item (C11).
type UserInteraction struct {
	ID          string              `json:"id"`
	UserID      string              `json:"userId"`
	ContentID   string              `json:"contentId"`
	ContentType ContentType         `json:"contentType"`
	Action      ActionType          `json:"action"`
	DwellTime   *float64            `json:"dwellTime,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
	Context     InteractionContext  `json:"context"`
	ContentTags []string            `json:"contentTags,omitempty"`
	Metadata    map[string]any      `json:"metadata,omitempty"`
}
