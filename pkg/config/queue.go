package config

import "time"

// IngestConfig contains worker-pool configuration for the ingest orchestrator.
// These values control how many sources run concurrently and how ingest
// windows are chunked before being handed to C7.
type IngestConfig struct {
	// WorkerCount is the number of ingest workers that pull sources off the
	// run queue concurrently.
	WorkerCount int `yaml:"worker_count"`

	// Schedule is the cron expression (in Defaults.DisplayTimeZone) that
	// triggers a full ingest cycle across all configured sources.
	Schedule string `yaml:"schedule"`

	// RunTimeout bounds a single source's ingest run; matches the external
	// invocation budget for scheduled runs.
	RunTimeout time.Duration `yaml:"run_timeout"`

	// CalendarChunkDays and FeedChunkDays are the default chunk sizes (in
	// days) the scheduler passes to C7 for calendar-backed and generic feed
	// sources respectively. C7 splits only a non-zero window into chunks;
	// scheduled runs pass a zero window, so these sizes do not split them.
	CalendarChunkDays int `yaml:"calendar_chunk_days"`
	FeedChunkDays     int `yaml:"feed_chunk_days"`

	// FetchMaxAttempts and FetchBackoffUnit drive the HTTP fetch retry
	// policy: linear backoff of attempt*FetchBackoffUnit for up to
	// FetchMaxAttempts tries.
	FetchMaxAttempts int           `yaml:"fetch_max_attempts"`
	FetchBackoffUnit time.Duration `yaml:"fetch_backoff_unit"`

	// FetchMaxPages bounds pagination for any single adapter fetch.
	FetchMaxPages int `yaml:"fetch_max_pages"`
}

// DefaultIngestConfig returns the built-in ingest/scheduler defaults.
func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		WorkerCount:       3,
		Schedule:          "*/30 * * * *",
		RunTimeout:        540 * time.Second,
		CalendarChunkDays: 7,
		FeedChunkDays:     15,
		FetchMaxAttempts:  3,
		FetchBackoffUnit:  250 * time.Millisecond,
		FetchMaxPages:     25,
	}
}
