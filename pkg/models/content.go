// Package models holds the document types persisted and exchanged by the
// ingestion-enrichment-ranking pipeline.
package models

import "time"

// ContentType enumerates the kinds of items that can appear in a feed or be
// the subject of a UserInteraction.
type ContentType string

const (
	ContentTypeEvent           ContentType = "event"
	ContentTypeEventSeries     ContentType = "event-series"
	ContentTypeCategoryBundle  ContentType = "event-category-bundle"
	ContentTypeFlashOffer      ContentType = "flash-offer"
	ContentTypePoll            ContentType = "poll"
	ContentTypeRequest         ContentType = "request"
	ContentTypePhoto           ContentType = "photo"
	ContentTypeAnnouncement    ContentType = "announcement"
)

// ValidContentTypes is used by interaction validation (C11).
var ValidContentTypes = map[ContentType]bool{
	ContentTypeEvent:          true,
	ContentTypeEventSeries:    true,
	ContentTypeCategoryBundle: true,
	ContentTypeFlashOffer:     true,
	ContentTypePoll:           true,
	ContentTypeRequest:        true,
	ContentTypePhoto:          true,
	ContentTypeAnnouncement:   true,
}

// ContentStats are the raw engagement counters behind the popularity signal.
type ContentStats struct {
	Views     int `json:"views"`
	Likes     int `json:"likes"`
	Shares    int `json:"shares"`
	Bookmarks int `json:"bookmarks"`
}

// ContentItem is the uniform capability set the feed ranker (C9) and the
// category bundler (C10) operate on. Events, series, and synthetic bundles
// all implement it; the ranker never type-switches on the concrete type.
type ContentItem interface {
	ItemID() string
	ItemTitle() string
	ItemContentType() ContentType
	ItemTags() []string
	ItemEmbedding() []float64
	ItemCreatedAt() time.Time
	ItemStats() ContentStats
	ItemMetadata() map[string]any
}
