// Package proposals implements the C3 tag-proposal recorder: transactional
// per-slug occurrence counters for candidate tags that have not yet been
// promoted into the stop-word-filtered vocabulary.
package proposals

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

// Recorder records tag-occurrence proposals and serves the ranked-pending
// read used by category-assignment prompts.
type Recorder struct {
	db *store.DB
}

func New(db *store.DB) *Recorder {
	return &Recorder{db: db}
}

// Record increments the proposal counters for every tag in tags (already
// slugified and stop-word-filtered, capped at models.MaxProposalTags by the
// caller) against eventID/title/sourceID, one document transaction per tag.
func (r *Recorder) Record(ctx context.Context, tags []string, eventID, title, sourceID string) error {
	now := time.Now().UTC()
	for _, tag := range tags {
		if err := r.recordOne(ctx, tag, eventID, title, sourceID, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) recordOne(ctx context.Context, slug, eventID, title, sourceID string, now time.Time) error {
	return store.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		proposal, err := store.GetForUpdate[models.TagProposal](ctx, tx, store.CollectionTagProposals, slug)
		if errors.Is(err, store.ErrNotFound) {
			proposal = &models.TagProposal{
				Slug:            slug,
				OccurrenceCount: 0,
				SourceCounts:    map[string]int{},
			}
		} else if err != nil {
			return err
		}

		proposal.OccurrenceCount++
		if proposal.SourceCounts == nil {
			proposal.SourceCounts = map[string]int{}
		}
		proposal.SourceCounts[sourceID]++
		proposal.LastSeenAt = now
		proposal.PrependSample(models.SampleEvent{EventID: eventID, Title: title, SourceID: sourceID})

		_, err = store.Put(ctx, tx, store.CollectionTagProposals, slug, proposal)
		return err
	})
}

// GetTopProposals returns pending proposals ordered by
// (occurrenceCount DESC, lastSeenAt DESC), capped at limit.
func (r *Recorder) GetTopProposals(ctx context.Context, limit int) ([]models.TagProposal, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT doc FROM documents
		WHERE collection = $1
		ORDER BY ((doc ->> 'occurrenceCount')::int) DESC, (doc ->> 'lastSeenAt') DESC
		LIMIT $2
	`, string(store.CollectionTagProposals), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TagProposal
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p models.TagProposal
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
