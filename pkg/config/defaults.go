package config

// Defaults contains system-wide default configuration values used when a
// specific component does not override them.
type Defaults struct {
	// DisplayTimeZone resolves day boundaries for feed windows and
	// today-pinned queries, and is the location of the ingest cron schedule.
	// Scheduled ingest runs do not compute windows in this zone; they fetch
	// each adapter's default range. Absolute timestamps are always stored
	// and compared in UTC; only boundary resolution uses this zone.
	DisplayTimeZone string `yaml:"display_timezone,omitempty"`

	// EmbeddingDimension is the fixed vector length for this deployment.
	// Every stored vector must have exactly this many components or be null.
	EmbeddingDimension int `yaml:"embedding_dimension,omitempty" validate:"omitempty,min=1"`

	// DebugClassification is loaded from configuration but no component
	// reads it; it does not change classifier logging.
	DebugClassification bool `yaml:"debug_classification,omitempty"`

	// ExploitRatio defaults to 0.8. The feed service does not read it: the
	// API server builds the feed with a fixed exploit ratio of 0.8.
	ExploitRatio float64 `yaml:"exploit_ratio,omitempty" validate:"omitempty,gt=0,lte=1"`

	// RecencyWeight and PopularityWeight default to 0.05 each. The ranker
	// does not read them; it scores with fixed 0.05 weights.
	RecencyWeight    float64 `yaml:"recency_weight,omitempty" validate:"omitempty,gte=0,lte=1"`
	PopularityWeight float64 `yaml:"popularity_weight,omitempty" validate:"omitempty,gte=0,lte=1"`

	// StopWordBlocklist is a per-deployment addition to the built-in
	// stop-word set applied to tag slugs before they are persisted.
	StopWordBlocklist []string `yaml:"stop_word_blocklist,omitempty"`
}

// DefaultValues returns the built-in system-wide defaults.
func DefaultValues() *Defaults {
	return &Defaults{
		DisplayTimeZone:     "America/Los_Angeles",
		EmbeddingDimension:  1536,
		DebugClassification: false,
		ExploitRatio:        0.8,
		RecencyWeight:       0.05,
		PopularityWeight:    0.05,
	}
}
