package config

import "time"

// RetentionConfig controls the background pruning behavior of pkg/cleanup.
// The core pipeline itself never deletes a CanonicalEvent; this is ambient
// housekeeping for documents that have aged out of any feed window.
type RetentionConfig struct {
	// PastEventTTL is how long an event is kept after its startTime before
	// it is eligible for deletion, provided it is not referenced by any
	// series' upcomingOccurrences.
	PastEventTTL time.Duration `yaml:"past_event_ttl"`

	// StaleProposalTTL is how long a tag proposal can go unseen
	// (lastSeenAt) before it is pruned.
	StaleProposalTTL time.Duration `yaml:"stale_proposal_ttl"`

	// CleanupInterval is how often the retention loop runs.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultRetentionConfig returns the built-in retention defaults.
func DefaultRetentionConfig() *RetentionConfig {
	return &RetentionConfig{
		PastEventTTL:     90 * 24 * time.Hour,
		StaleProposalTTL: 30 * 24 * time.Hour,
		CleanupInterval:  12 * time.Hour,
	}
}
