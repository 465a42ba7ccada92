package models

import "time"

// EngagementStyle characterizes how a user reads/scrolls content, derived
// from dwell-time and scroll-position averages (C8). See GLOSSARY.
type EngagementStyle struct {
	IsDeepReader  bool    `json:"isDeepReader"`
	QuickBrowser  bool    `json:"quickBrowser"`
	ScrollsDeep   bool    `json:"scrollsDeep"`
	AvgDwellTime  float64 `json:"avgDwellTime"`
	AvgPosition   float64 `json:"avgPosition"`
}

// DeriveEngagementStyle applies the GLOSSARY thresholds:
// isDeepReader = avgDwell>10s; quickBrowser = avgDwell<3s; scrollsDeep = avgPos>20.
func DeriveEngagementStyle(avgDwell, avgPosition float64) EngagementStyle {
	return EngagementStyle{
		IsDeepReader: avgDwell > 10,
		QuickBrowser: avgDwell < 3,
		ScrollsDeep:  avgPosition > 20,
		AvgDwellTime: avgDwell,
		AvgPosition:  avgPosition,
	}
}

// UserProfile is derived on demand from interaction history (C8); it is
// never persisted long-term.
type UserProfile struct {
	UserID string `json:"userId"`

	Embedding           []float64            `json:"embedding,omitempty"`
	ContentTypeAffinity map[ContentType]float64 `json:"contentTypeAffinity"`
	TimeOfDayPatterns   map[TimeOfDay]int    `json:"timeOfDayPatterns"`
	EngagementStyle     EngagementStyle      `json:"engagementStyle"`

	TotalInteractions int       `json:"totalInteractions"`
	LastActiveAt      time.Time `json:"lastActiveAt"`
}

// MinInteractionsForPersonalization is the threshold below which the feed
// ranker falls back to createdAt ordering (C9).
const MinInteractionsForPersonalization = 20

// HasEnoughDataForPersonalization reports whether the profile's source
// interaction count clears the personalization threshold.
func (p *UserProfile) HasEnoughDataForPersonalization() bool {
	return p != nil && p.TotalInteractions >= MinInteractionsForPersonalization
}
