package models

import "time"

const (
	MaxSampleEvents     = 5
	MaxProposalTags     = 10
)

// SampleEvent is one illustrative event attached to a TagProposal so a
// reviewer can see what drove a proposed tag.
type SampleEvent struct {
	EventID  string `json:"eventId"`
	Title    string `json:"title"`
	SourceID string `json:"sourceId"`
}

// TagProposal accumulates occurrence counts for a candidate tag slug that
// has not yet been promoted into the stop-word-filtered vocabulary (C3).
type TagProposal struct {
	Slug string `json:"slug"`

	OccurrenceCount int            `json:"occurrenceCount"`
	SourceCounts    map[string]int `json:"sourceCounts"`
	LastSeenAt      time.Time      `json:"lastSeenAt"`
	SampleEvents    []SampleEvent  `json:"sampleEvents"`
}

// PrependSample adds a sample event to the front of SampleEvents,
// de-duplicating by eventId and capping at MaxSampleEvents.
func (p *TagProposal) PrependSample(s SampleEvent) {
	filtered := make([]SampleEvent, 0, len(p.SampleEvents)+1)
	filtered = append(filtered, s)
	for _, existing := range p.SampleEvents {
		if existing.EventID == s.EventID {
			continue
		}
		filtered = append(filtered, existing)
	}
	if len(filtered) > MaxSampleEvents {
		filtered = filtered[:MaxSampleEvents]
	}
	p.SampleEvents = filtered
}
