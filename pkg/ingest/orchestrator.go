// Package ingest implements the C7 orchestrator: the three-phase
// prepare/tag/embed/persist pipeline that turns fetched raw payloads into
// persisted canonical events, series, and category assignments.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/categories"
	"github.com/codeready-toolchain/pulsefeed/pkg/classifier"
	"github.com/codeready-toolchain/pulsefeed/pkg/eventstore"
	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/codeready-toolchain/pulsefeed/pkg/proposals"
	"github.com/codeready-toolchain/pulsefeed/pkg/series"
	"github.com/codeready-toolchain/pulsefeed/pkg/slug"
	"github.com/codeready-toolchain/pulsefeed/pkg/sources"
)

// Stats aggregates one orchestrator run.
type Stats struct {
	Fetched int
	Created int
	Updated int
	Skipped int
}

func (s *Stats) add(other Stats) {
	s.Fetched += other.Fetched
	s.Created += other.Created
	s.Updated += other.Updated
	s.Skipped += other.Skipped
}

// Orchestrator wires the C1-C6 collaborators into the C7 pipeline.
type Orchestrator struct {
	Events     *eventstore.Store
	Classifier *classifier.Client
	Proposals  *proposals.Recorder
	Series     *series.Store
	Categories *categories.Store

	StopWordBlocklist []string
	Logger            *slog.Logger
}

// preparedEvent is the per-item record carried across phases.
type preparedEvent struct {
	normalized          sources.NormalizedEvent
	existing            *models.CanonicalEvent
	reuseClassification bool

	tags       []string
	candidates []models.Candidate
	vector     []float64
	metadata   map[string]any

	failed bool
}

// RunWindow runs one pass of the pipeline for adapter over window.
func (o *Orchestrator) RunWindow(ctx context.Context, adapter sources.Adapter, window sources.Window, forceRefresh bool) (Stats, error) {
	logger := o.logger()
	stats := Stats{}

	payloads, err := adapter.FetchRawEvents(ctx, window)
	if err != nil {
		return stats, err
	}
	stats.Fetched = len(payloads)

	prepared := o.prepare(ctx, adapter, payloads, forceRefresh)
	o.tag(ctx, prepared)
	o.embed(ctx, prepared)

	for _, p := range prepared {
		if p.failed {
			stats.Skipped++
			continue
		}
		created, err := o.persist(ctx, p, forceRefresh)
		if err != nil {
			logger.Error("persist failed, skipping entry", "sourceEventId", p.normalized.Event.Source.SourceEventID, "error", err)
			stats.Skipped++
			continue
		}
		if p.reuseClassification {
			stats.Updated++
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	return stats, nil
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// contentHash fingerprints a raw payload for change detection, since the
// adapter contract does not guarantee an upstream last-modified field.
func contentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func (o *Orchestrator) prepare(ctx context.Context, adapter sources.Adapter, payloads []sources.RawEventPayload, forceRefresh bool) []*preparedEvent {
	out := make([]*preparedEvent, 0, len(payloads))
	for _, payload := range payloads {
		normalized, err := adapter.Normalize(payload)
		if err != nil {
			o.logger().Warn("normalize failed, skipping entry", "sourceEventId", payload.SourceEventID, "error", err)
			out = append(out, &preparedEvent{failed: true})
			continue
		}

		existing, err := o.Events.GetEvent(ctx, normalized.Event.ID)
		if err != nil {
			o.logger().Warn("load existing event failed, skipping entry", "eventId", normalized.Event.ID, "error", err)
			out = append(out, &preparedEvent{failed: true})
			continue
		}

		p := &preparedEvent{normalized: normalized, existing: existing}

		if existing != nil {
			storedHash, _ := existing.Classification.Metadata["contentHash"].(string)
			incomingHash := contentHash(payload.Raw)
			p.reuseClassification = !forceRefresh && storedHash != "" && incomingHash == storedHash
			if p.reuseClassification {
				p.tags = existing.Tags
				p.vector = existing.Vector
				p.candidates = existing.Classification.Candidates
				p.metadata = existing.Classification.Metadata
			}
		}

		out = append(out, p)
	}
	return out
}

// tag runs phase 1: classifyTags for every non-reuse entry, attaching
// candidates and a tentative stop-word-filtered tag list.
func (o *Orchestrator) tag(ctx context.Context, prepared []*preparedEvent) {
	for _, p := range prepared {
		if p.failed || p.reuseClassification {
			continue
		}
		event := p.normalized.Event
		description := ""
		if event.Description != nil {
			description = *event.Description
		}
		result, err := o.Classifier.Classify(ctx, classifier.Input{Title: event.Title, Description: description})
		if err != nil {
			o.logger().Warn("classify failed, continuing without tags", "eventId", event.ID, "error", err)
			continue
		}
		p.tags = slug.NormalizeTags(result.Tags, o.StopWordBlocklist)
		p.metadata = result.Metadata
		p.candidates = toModelCandidates(result.Candidates)
	}
}

// embed runs phase 2: a single batched embedMany call over every non-reuse
// entry whose phase-1 tag list is non-empty, attaching the resulting
// vectors back in order.
func (o *Orchestrator) embed(ctx context.Context, prepared []*preparedEvent) {
	var targets []*preparedEvent
	var texts []string
	for _, p := range prepared {
		if p.failed || p.reuseClassification || len(p.tags) == 0 {
			continue
		}
		event := p.normalized.Event
		description := ""
		if event.Description != nil {
			description = *event.Description
		}
		targets = append(targets, p)
		texts = append(texts, classifier.EmbedText(event.Title, description, p.tags))
	}
	if len(targets) == 0 {
		return
	}

	vectors, err := o.Classifier.EmbedMany(ctx, texts)
	if err != nil {
		o.logger().Warn("batch embed failed, continuing without vectors", "count", len(targets), "error", err)
		return
	}
	for i, v := range vectors {
		if i >= len(targets) {
			break
		}
		targets[i].vector = v
	}
}

func (o *Orchestrator) persist(ctx context.Context, p *preparedEvent, forceRefresh bool) (created bool, err error) {
	event := p.normalized.Event
	now := time.Now().UTC()

	if p.reuseClassification {
		return false, o.Events.TouchEvent(ctx, event.ID, now)
	}

	if len(p.tags) > models.MaxProposalTags {
		p.tags = p.tags[:models.MaxProposalTags]
	}
	if err := o.Proposals.Record(ctx, p.tags, event.ID, event.TitleOrFallback(), event.Source.SourceID); err != nil {
		o.logger().Warn("record tag proposals failed", "eventId", event.ID, "error", err)
	}

	event.Tags = eventstore.NormalizeTags(p.tags)
	event.Classification = models.Classification{Tags: event.Tags, Candidates: p.candidates, Metadata: mergeMetadata(p.metadata, contentHash(p.normalized.RawSnapshot))}
	event.Vector = p.vector
	event.LastFetchedAt = now
	event.LastUpdatedAt = now

	attachResult, err := o.Series.AttachEvent(ctx, &event, series.AttachInput{
		HostID:    p.normalized.Host.HostIDSeed,
		HostName:  p.normalized.Host.HostName,
		Organizer: p.normalized.Host.Organizer,
		SourceID:  event.Source.SourceID,
	})
	if err != nil {
		o.logger().Warn("series attach failed, saving event without series", "eventId", event.ID, "error", err)
	} else {
		event.SeriesID = &attachResult.SeriesID

		assignment, err := o.Categories.AssignSeries(ctx, categories.AssignInput{
			SeriesID: attachResult.SeriesID,
			Host:     attachResult.Host,
			Force:    attachResult.Created || forceRefresh,
		})
		if err != nil {
			o.logger().Warn("category assignment failed", "seriesId", attachResult.SeriesID, "error", err)
		} else if assignment != nil {
			event.SeriesCategoryID = &assignment.CategoryID
			event.SeriesCategoryName = &assignment.CategoryName
		}
	}

	return o.Events.SaveEvent(ctx, &event)
}

func mergeMetadata(metadata map[string]any, hash string) map[string]any {
	out := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		out[k] = v
	}
	out["contentHash"] = hash
	return out
}

func toModelCandidates(candidates []classifier.Candidate) []models.Candidate {
	out := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, models.Candidate{
			Tag:        c.Tag,
			Confidence: c.Confidence,
			Rationale:  c.Rationale,
			Source:     models.CandidateSource(c.Source),
		})
	}
	return out
}

