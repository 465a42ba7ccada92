// Package scheduler drives the C7 ingest orchestrator on a cron schedule,
// one run per configured source, and reports basic health for /status.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/codeready-toolchain/pulsefeed/pkg/config"
	"github.com/codeready-toolchain/pulsefeed/pkg/ingest"
	"github.com/codeready-toolchain/pulsefeed/pkg/sources"
)

// Scheduler periodically triggers a full ingest cycle across every enabled
// source. Each run hands C7 a zero window, so the adapter fetches its own
// default range in one pass; the chunk size chosen per adapter kind does
// not split that run.
type Scheduler struct {
	cfg          *config.IngestConfig
	sourceReg    *config.SourceRegistry
	orchestrator *ingest.Orchestrator
	fetcher      *sources.Fetcher
	cron         *cron.Cron

	mu     sync.Mutex
	status Status
}

// Status is the scheduler's health snapshot, surfaced via GET /status.
type Status struct {
	ActiveSources int
	QueueDepth    int
	LastRunAt     time.Time
	LastRunError  string
	RunsCompleted int
}

// New builds a Scheduler. The cron runs in the display timezone so the
// configured schedule expression's hours line up with local ingest windows.
func New(cfg *config.IngestConfig, displayTZ string, sourceReg *config.SourceRegistry, orchestrator *ingest.Orchestrator, fetcher *sources.Fetcher) (*Scheduler, error) {
	loc, err := time.LoadLocation(displayTZ)
	if err != nil {
		loc = time.UTC
	}
	return &Scheduler{
		cfg:          cfg,
		sourceReg:    sourceReg,
		orchestrator: orchestrator,
		fetcher:      fetcher,
		cron:         cron.New(cron.WithLocation(loc)),
	}, nil
}

// Start registers the ingest schedule and begins the cron loop. It does not
// block; call Stop to halt it.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runAll(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("Scheduler started", "schedule", s.cfg.Schedule)
	return nil
}

// Stop halts the cron loop and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	slog.Info("Scheduler stopped")
}

// RunNow triggers an immediate ingest cycle across every enabled source,
// used by the admin /admin/ingest endpoint and the ingestctl CLI.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.runAll(ctx)
}

// RunSource triggers an immediate ingest cycle for a single source by id.
func (s *Scheduler) RunSource(ctx context.Context, sourceID string) error {
	cfg, err := s.sourceReg.Get(sourceID)
	if err != nil {
		return err
	}
	return s.runOne(ctx, *cfg)
}

// runAll fans a run out across a bounded pool of s.cfg.WorkerCount workers,
// each pulling sources off a shared job queue, mirroring the teacher's
// worker-pool shape (fixed worker goroutines draining a channel) rather
// than one goroutine per source.
func (s *Scheduler) runAll(ctx context.Context) error {
	sourceConfigs := s.sourceReg.GetAll()
	s.setActiveCount(len(sourceConfigs))

	if len(sourceConfigs) == 0 {
		s.recordRun(nil)
		return nil
	}

	workerCount := s.cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(sourceConfigs) {
		workerCount = len(sourceConfigs)
	}

	jobs := make(chan config.SourceConfig, len(sourceConfigs))
	for _, cfg := range sourceConfigs {
		jobs <- *cfg
	}
	close(jobs)
	s.setQueueDepth(len(sourceConfigs))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		lastErr error
	)
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cfg := range jobs {
				s.decrementQueueDepth()

				runCtx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
				err := s.runOne(runCtx, cfg)
				cancel()
				if err != nil {
					slog.Error("Ingest run failed", "source", cfg.ID, "error", err)
					mu.Lock()
					lastErr = err
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	s.recordRun(lastErr)
	return lastErr
}

func (s *Scheduler) runOne(ctx context.Context, cfg config.SourceConfig) error {
	adapter, err := sources.Build(cfg, s.fetcher)
	if err != nil {
		return err
	}

	chunkDays := s.cfg.FeedChunkDays
	if cfg.Kind == config.SourceKindCalendar {
		chunkDays = s.cfg.CalendarChunkDays
	}
	if cfg.ChunkDays > 0 {
		chunkDays = cfg.ChunkDays
	}

	window := sources.Window{}
	stats, err := s.orchestrator.RunChunked(ctx, adapter, window, chunkDays, false)
	if err != nil {
		return err
	}
	slog.Info("Ingest run completed",
		"source", cfg.ID,
		"fetched", stats.Fetched,
		"created", stats.Created,
		"updated", stats.Updated,
		"skipped", stats.Skipped)
	return nil
}

func (s *Scheduler) setActiveCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.ActiveSources = n
}

func (s *Scheduler) setQueueDepth(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.QueueDepth = n
}

func (s *Scheduler) decrementQueueDepth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.QueueDepth > 0 {
		s.status.QueueDepth--
	}
}

func (s *Scheduler) recordRun(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastRunAt = time.Now().UTC()
	s.status.RunsCompleted++
	if err != nil {
		s.status.LastRunError = err.Error()
	} else {
		s.status.LastRunError = ""
	}
}

// Health returns a snapshot of the scheduler's status for GET /status.
func (s *Scheduler) Health() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
