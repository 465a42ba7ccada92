package models

import "time"

// CandidateSource names where a classification candidate tag came from.
type CandidateSource string

const (
	CandidateSourceLLM       CandidateSource = "llm"
	CandidateSourceEmbedding CandidateSource = "embedding"
	CandidateSourceKeyword   CandidateSource = "keyword"
)

// Candidate is one proposed tag from the classifier gateway (C2), kept
// alongside the final filtered tag set so the reasoning behind a tag is
// auditable.
type Candidate struct {
	Tag        string          `json:"tag"`
	Confidence float64         `json:"confidence"`
	Rationale  string          `json:"rationale,omitempty"`
	Source     CandidateSource `json:"source"`
}

// Classification holds the tag-classification result attached to an event.
type Classification struct {
	Tags       []string       `json:"tags"`
	Candidates []Candidate    `json:"candidates"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Venue describes where an event takes place.
type Venue struct {
	Name         string `json:"name,omitempty"`
	Address      string `json:"address,omitempty"`
	RawLocation  string `json:"rawLocation,omitempty"`
}

// EventSource identifies the external origin of a canonical event.
type EventSource struct {
	SourceID      string `json:"sourceId"`
	SourceEventID string `json:"sourceEventId"`
	SourceURL     string `json:"sourceUrl,omitempty"`
}

// ID returns the deterministic document id "{sourceId}:{sourceEventId}".
func (s EventSource) ID() string {
	return s.SourceID + ":" + s.SourceEventID
}

// Breadcrumb is one append-only audit entry recording how/when a document
// was touched by an ingest run. Breadcrumb chains are capped at 20 entries.
type Breadcrumb struct {
	Type          string         `json:"type"`
	SourceID      string         `json:"sourceId"`
	SourceEventID string         `json:"sourceEventId,omitempty"`
	FetchedAt     time.Time      `json:"fetchedAt"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

const maxBreadcrumbs = 20

// AppendBreadcrumb appends b, capping the chain at maxBreadcrumbs by
// dropping the oldest entries first.
func AppendBreadcrumb(chain []Breadcrumb, b Breadcrumb) []Breadcrumb {
	chain = append(chain, b)
	if len(chain) > maxBreadcrumbs {
		chain = chain[len(chain)-maxBreadcrumbs:]
	}
	return chain
}

// CanonicalEvent is the normalized record produced by a source adapter (C1)
// and owned thereafter by the event store (C4).
type CanonicalEvent struct {
	ID string `json:"id"`

	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`

	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	TimeZone  *string    `json:"timeZone,omitempty"`
	IsAllDay  *bool      `json:"isAllDay,omitempty"`
	Venue     *Venue     `json:"venue,omitempty"`
	Organizer *string    `json:"organizer,omitempty"`
	Price     *string    `json:"price,omitempty"`
	Status    *string    `json:"status,omitempty"`

	Tags           []string        `json:"tags"`
	Classification Classification  `json:"classification"`
	Vector         []float64       `json:"vector,omitempty"`
	Breadcrumbs    []Breadcrumb    `json:"breadcrumbs,omitempty"`
	Source         EventSource     `json:"source"`

	LastFetchedAt time.Time `json:"lastFetchedAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`

	SeriesID           *string `json:"seriesId,omitempty"`
	SeriesCategoryID   *string `json:"seriesCategoryId,omitempty"`
	SeriesCategoryName *string `json:"seriesCategoryName,omitempty"`
}

// TitleOrFallback returns the event title, falling back to "Untitled Event"
// per spec.md §3.
func (e *CanonicalEvent) TitleOrFallback() string {
	if e.Title == "" {
		return "Untitled Event"
	}
	return e.Title
}

func (e *CanonicalEvent) ItemID() string            { return e.ID }
func (e *CanonicalEvent) ItemTitle() string          { return e.TitleOrFallback() }
func (e *CanonicalEvent) ItemContentType() ContentType { return ContentTypeEvent }
func (e *CanonicalEvent) ItemTags() []string          { return e.Tags }
func (e *CanonicalEvent) ItemEmbedding() []float64    { return e.Vector }
func (e *CanonicalEvent) ItemCreatedAt() time.Time    { return e.LastFetchedAt }
func (e *CanonicalEvent) ItemStats() ContentStats     { return ContentStats{} }
func (e *CanonicalEvent) ItemMetadata() map[string]any {
	return map[string]any{
		"seriesId":           e.SeriesID,
		"seriesCategoryId":   e.SeriesCategoryID,
		"seriesCategoryName": e.SeriesCategoryName,
	}
}

var _ ContentItem = (*CanonicalEvent)(nil)
