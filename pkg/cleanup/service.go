// Package cleanup provides data retention and cleanup services.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/config"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

// Service periodically enforces retention policies:
//   - Deletes past events, recurring or not, once they age past
//     PastEventTTL and are not referenced by any series'
//     upcomingOccurrences.
//   - Prunes tag proposals that have gone unseen past StaleProposalTTL.
//
// The core pipeline itself never deletes a document; this is ambient
// housekeeping for documents that have aged out of any feed window.
type Service struct {
	config *config.RetentionConfig
	db     *store.DB

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service.
func NewService(cfg *config.RetentionConfig, db *store.DB) *Service {
	return &Service{config: cfg, db: db}
}

// Start launches the background cleanup loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("Cleanup service started",
		"past_event_ttl", s.config.PastEventTTL,
		"stale_proposal_ttl", s.config.StaleProposalTTL,
		"interval", s.config.CleanupInterval)
}

// Stop signals the cleanup loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("Cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.runAll(ctx)

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Service) runAll(ctx context.Context) {
	s.deletePastEvents(ctx)
	s.deleteStaleProposals(ctx)
}

// deletePastEvents removes events older than PastEventTTL that are not
// referenced by any series' upcomingOccurrences, so an event still feeding
// a pinned or displayed series occurrence is never pruned out from under it.
func (s *Service) deletePastEvents(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.config.PastEventTTL)
	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM documents
		WHERE collection = $1
		  AND (doc ->> 'startTime')::timestamptz < $2
		  AND id NOT IN (
			SELECT jsonb_array_elements(doc -> 'upcomingOccurrences') ->> 'eventId'
			FROM documents
			WHERE collection = $3
		  )
	`, string(store.CollectionEvents), cutoff, string(store.CollectionEventSeries))
	if err != nil {
		slog.Error("Retention: past-event cleanup failed", "error", err)
		return
	}
	if n := tag.RowsAffected(); n > 0 {
		slog.Info("Retention: deleted past events", "count", n)
	}
}

// deleteStaleProposals removes tag proposals whose lastSeenAt has aged past
// StaleProposalTTL without a fresh occurrence.
func (s *Service) deleteStaleProposals(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.config.StaleProposalTTL)
	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM documents
		WHERE collection = $1 AND (doc ->> 'lastSeenAt')::timestamptz < $2
	`, string(store.CollectionTagProposals), cutoff)
	if err != nil {
		slog.Error("Retention: stale-proposal cleanup failed", "error", err)
		return
	}
	if n := tag.RowsAffected(); n > 0 {
		slog.Info("Retention: deleted stale tag proposals", "count", n)
	}
}
