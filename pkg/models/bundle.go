package models

import "time"

// BundleState is the metadata.bundleState shape an interaction must carry
// when marking a category bundle seen (C11).
type BundleState struct {
	CategoryID string `json:"categoryId"`
	Version    int    `json:"version"`
}

// BundleMetadata is the metadata attached to a synthetic category-bundle
// ContentItem (C10).
type BundleMetadata struct {
	CategoryID      string      `json:"categoryId"`
	HostID          string      `json:"hostId"`
	SeriesIDs       []string    `json:"seriesIds"`
	NewSeriesIDs    []string    `json:"newSeriesIds"`
	DisplaySeries   []string    `json:"displaySeries"`
	TotalSeriesCount int        `json:"totalSeriesCount"`
	BundleState     BundleState `json:"bundleState"`
}

// CategoryBundle is the synthetic ContentItem C10 emits for a
// "new items in category X" group, fed into C9 alongside ordinary
// candidates.
type CategoryBundle struct {
	ID          string
	Title       string
	Tags        []string
	Embedding   []float64
	Stats       ContentStats
	CreatedAt   time.Time
	Metadata    BundleMetadata
}

// BundleID returns the synthetic id "bundle:{categoryId}".
func BundleID(categoryID string) string {
	return "bundle:" + categoryID
}

func (b *CategoryBundle) ItemID() string              { return b.ID }
func (b *CategoryBundle) ItemTitle() string            { return b.Title }
func (b *CategoryBundle) ItemContentType() ContentType { return ContentTypeCategoryBundle }
func (b *CategoryBundle) ItemTags() []string           { return b.Tags }
func (b *CategoryBundle) ItemEmbedding() []float64     { return b.Embedding }
func (b *CategoryBundle) ItemCreatedAt() time.Time     { return b.CreatedAt }
func (b *CategoryBundle) ItemStats() ContentStats      { return b.Stats }
func (b *CategoryBundle) ItemMetadata() map[string]any {
	return map[string]any{"bundle": b.Metadata}
}

var _ ContentItem = (*CategoryBundle)(nil)
