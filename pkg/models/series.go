package models

import "time"

// HostInfo is the denormalized host/organizer context attached to a series.
type HostInfo struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Organizer string   `json:"organizer,omitempty"`
	SourceIDs []string `json:"sourceIds"`
}

// Occurrence is one upcoming instance of a series, projected from a
// CanonicalEvent at attach time.
type Occurrence struct {
	EventID   string     `json:"eventId"`
	Title     string     `json:"title"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Tags      []string   `json:"tags"`
}

// SeriesStats holds derived counters surfaced on an EventSeries document.
type SeriesStats struct {
	UpcomingCount int `json:"upcomingCount"`
}

const MaxUpcomingOccurrences = 20

// EventSeries clusters CanonicalEvents sharing (host, title) and maintains a
// rolling window of upcoming occurrences (C5).
type EventSeries struct {
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Summary     string `json:"summary,omitempty"`
	ContentType ContentType `json:"contentType"`

	Host        HostInfo     `json:"host"`
	Tags        []string     `json:"tags"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs,omitempty"`
	Source      EventSource  `json:"source"`
	Venue       *Venue       `json:"venue,omitempty"`

	CategoryID    *string `json:"categoryId,omitempty"`
	CategoryName  *string `json:"categoryName,omitempty"`
	CategorySlug  *string `json:"categorySlug,omitempty"`

	UpcomingOccurrences []Occurrence `json:"upcomingOccurrences"`
	NextOccurrence      *Occurrence  `json:"nextOccurrence,omitempty"`
	NextStartTime       *time.Time   `json:"nextStartTime,omitempty"`

	Vector []float64   `json:"vector,omitempty"`
	Stats  SeriesStats `json:"stats"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *EventSeries) ItemID() string              { return s.ID }
func (s *EventSeries) ItemTitle() string            { return s.Title }
func (s *EventSeries) ItemContentType() ContentType { return ContentTypeEventSeries }
func (s *EventSeries) ItemTags() []string           { return s.Tags }
func (s *EventSeries) ItemEmbedding() []float64     { return s.Vector }
func (s *EventSeries) ItemCreatedAt() time.Time     { return s.CreatedAt }
func (s *EventSeries) ItemStats() ContentStats      { return ContentStats{} }
func (s *EventSeries) ItemMetadata() map[string]any {
	return map[string]any{
		"categoryId":   s.CategoryID,
		"categoryName": s.CategoryName,
		"hostId":       s.Host.ID,
	}
}

var _ ContentItem = (*EventSeries)(nil)

// ChangeLogEntry records one version bump of an EventCategory, naming
// exactly which series were added in that bump (C6).
type ChangeLogEntry struct {
	Version           int       `json:"version"`
	AddedSeriesIDs    []string  `json:"addedSeriesIds"`
	AddedSeriesTitles []string  `json:"addedSeriesTitles"`
	CreatedAt         time.Time `json:"createdAt"`
}

const (
	MaxCategoryTags       = 50
	MaxSampleSeriesTitles = 8
	MaxChangeLogEntries   = 25
)

// EventCategory groups a host's series into a user-friendly bucket with a
// monotonic version and change-log supporting per-user "what's new" diffs
// (C6).
type EventCategory struct {
	ID string `json:"id"`

	HostID      string   `json:"hostId"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`

	SampleSeriesTitles []string `json:"sampleSeriesTitles"`
	SeriesIDs          []string `json:"seriesIds"`

	Version   int              `json:"version"`
	ChangeLog []ChangeLogEntry `json:"changeLog"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasSeries reports whether seriesID is already a member of the category.
func (c *EventCategory) HasSeries(seriesID string) bool {
	for _, id := range c.SeriesIDs {
		if id == seriesID {
			return true
		}
	}
	return false
}

// RemoveSeries removes seriesID from SeriesIDs, if present.
func (c *EventCategory) RemoveSeries(seriesID string) {
	out := c.SeriesIDs[:0]
	for _, id := range c.SeriesIDs {
		if id != seriesID {
			out = append(out, id)
		}
	}
	c.SeriesIDs = out
}
