// Package eventstore implements the C4 event store: the canonical-event
// read/write operations that sit between the source adapters and the
// series/category stores.
package eventstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

type Store struct {
	db *store.DB
}

func New(db *store.DB) *Store {
	return &Store{db: db}
}

// GetEvent returns the stored snapshot, or nil (not an error) if absent.
func (s *Store) GetEvent(ctx context.Context, id string) (*models.CanonicalEvent, error) {
	event, err := store.Get[models.CanonicalEvent](ctx, s.db.Pool, store.CollectionEvents, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return event, err
}

// SaveEvent writes the full record, normalizing tags, and reports whether
// the write created a new document or replaced an existing one.
func (s *Store) SaveEvent(ctx context.Context, event *models.CanonicalEvent) (created bool, err error) {
	event.Tags = NormalizeTags(event.Tags)
	return store.Put(ctx, s.db.Pool, store.CollectionEvents, event.ID, event)
}

// TouchEvent updates only lastFetchedAt, used when change detection
// determines no reclassification is needed.
func (s *Store) TouchEvent(ctx context.Context, id string, fetchedAt time.Time) error {
	return store.Touch(ctx, s.db.Pool, store.CollectionEvents, id, map[string]any{
		"lastFetchedAt": fetchedAt,
	})
}

// UpdateEventSeriesInfo merge-patches the series/category assignment onto
// an event, used by C5/C6 post-attachment.
func (s *Store) UpdateEventSeriesInfo(ctx context.Context, eventID string, seriesID string, categoryID, categoryName *string) error {
	return store.Touch(ctx, s.db.Pool, store.CollectionEvents, eventID, map[string]any{
		"seriesId":           seriesID,
		"seriesCategoryId":   categoryID,
		"seriesCategoryName": categoryName,
	})
}

// NormalizeTags lower-cases, trims, deduplicates, and drops empty tags on
// write.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
