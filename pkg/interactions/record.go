package interactions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/codeready-toolchain/pulsefeed/pkg/bundler"
	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

type Store struct {
	db      *store.DB
	bundles *bundler.Store
}

func New(db *store.DB) *Store {
	return &Store{db: db, bundles: bundler.New(db)}
}

// RecordInteractions validates and atomically persists a batch of up to 100
// interactions, then runs each one's post-write side effects (pin toggling,
// bundle last-seen refresh).
func (s *Store) RecordInteractions(ctx context.Context, batch []models.UserInteraction) ([]string, error) {
	if err := ValidateBatch(batch); err != nil {
		return nil, err
	}

	ids := make([]string, len(batch))
	now := time.Now().UTC()
	for i := range batch {
		if batch[i].ID == "" {
			batch[i].ID = uuid.New().String()
		}
		if batch[i].Timestamp.IsZero() {
			batch[i].Timestamp = now
		}
		ids[i] = batch[i].ID
	}

	err := store.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		for i := range batch {
			if _, err := store.Put(ctx, tx, store.CollectionInteractions, batch[i].ID, &batch[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range batch {
		if err := s.applyPostWriteEffects(ctx, batch[i]); err != nil {
			return ids, err
		}
	}
	return ids, nil
}

func (s *Store) applyPostWriteEffects(ctx context.Context, in models.UserInteraction) error {
	switch {
	case (in.ContentType == models.ContentTypeEvent || in.ContentType == models.ContentTypeEventSeries) && in.Action == models.ActionBookmarked:
		active := metadataBool(in.Metadata, "active", true)
		return s.applyPinToggle(ctx, in.UserID, in.ContentID, in.ContentType, active)
	case in.ContentType == models.ContentTypeCategoryBundle:
		categoryID, version, ok := bundleState(in.Metadata)
		if !ok {
			return nil
		}
		return s.bundles.MarkSeen(ctx, in.UserID, categoryID, version)
	}
	return nil
}

// TogglePin is the direct entry point behind POST
// /users/{userId}/pinned-events, which pins or unpins an event outside the
// general interaction-recording path.
func (s *Store) TogglePin(ctx context.Context, userID, eventID string, active bool) error {
	return s.applyPinToggle(ctx, userID, eventID, models.ContentTypeEvent, active)
}

// applyPinToggle pins or unpins an event or series for a user, per spec
// §4.11: true pins (writing a denormalized snapshot), false unpins
// (deletes the pin document).
func (s *Store) applyPinToggle(ctx context.Context, userID, contentID string, contentType models.ContentType, active bool) error {
	collection := store.CollectionPinnedEventEntries
	if contentType == models.ContentTypeEventSeries {
		collection = store.CollectionPinnedEventSeries
	}
	id := userID + ":" + contentID

	if !active {
		return store.Delete(ctx, s.db.Pool, collection, id)
	}

	if contentType == models.ContentTypeEventSeries {
		return s.pinSeries(ctx, userID, contentID, id)
	}
	return s.pinEvent(ctx, userID, contentID, id)
}

func (s *Store) pinEvent(ctx context.Context, userID, eventID, id string) error {
	event, err := store.Get[models.CanonicalEvent](ctx, s.db.Pool, store.CollectionEvents, eventID)
	if err != nil {
		return err
	}

	var series *models.EventSeries
	if event.SeriesID != nil {
		var err error
		series, err = store.Get[models.EventSeries](ctx, s.db.Pool, store.CollectionEventSeries, *event.SeriesID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	seriesTitle := seriesTitleOf(series)

	pin := &models.PinnedEvent{
		UserID:         userID,
		EventID:        eventID,
		Title:          event.TitleOrFallback(),
		Location:       venueLocation(event.Venue),
		Tags:           event.Tags,
		EventStartTime: event.StartTime,
		EventEndTime:   event.EndTime,
		ContentType:    models.ContentTypeEvent,
		Source:         event.Source,
		SeriesID:       event.SeriesID,
		SeriesTitle:    seriesTitle,
		HostName:       event.Organizer,
		PinnedAt:       time.Now().UTC(),
	}
	_, err = store.Put(ctx, s.db.Pool, store.CollectionPinnedEventEntries, id, pin)
	return err
}

func (s *Store) pinSeries(ctx context.Context, userID, seriesID, id string) error {
	series, err := store.Get[models.EventSeries](ctx, s.db.Pool, store.CollectionEventSeries, seriesID)
	if err != nil {
		return err
	}
	pin := &models.PinnedSeries{
		UserID:   userID,
		SeriesID: seriesID,
		Title:    series.Title,
		HostName: nonEmptyPtr(series.Host.Name),
		Tags:     series.Tags,
		Source:   series.Source,
		PinnedAt: time.Now().UTC(),
	}
	_, err = store.Put(ctx, s.db.Pool, store.CollectionPinnedEventSeries, id, pin)
	return err
}

// seriesTitleOf returns the series' title for denormalizing onto a pin, or
// nil if the event has no series or the series could not be found.
func seriesTitleOf(series *models.EventSeries) *string {
	if series == nil {
		return nil
	}
	return &series.Title
}

func venueLocation(v *models.Venue) *string {
	if v == nil {
		return nil
	}
	if v.Name != "" {
		return &v.Name
	}
	if v.RawLocation != "" {
		return &v.RawLocation
	}
	return nil
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
