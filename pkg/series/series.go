// Package series implements the C5 series store: clustering canonical
// events sharing a (host, title) pair and maintaining a rolling window of
// upcoming occurrences.
package series

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/codeready-toolchain/pulsefeed/pkg/slug"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

const maxSeriesIDLength = 200

// BuildSeriesID derives the deterministic series id
// "{hostId}__{slug(title)}", truncating and tail-hashing if it would
// exceed maxSeriesIDLength.
func BuildSeriesID(hostID, title string) string {
	id := hostID + "__" + slug.Slugify(title)
	if len(id) <= maxSeriesIDLength {
		return id
	}
	sum := sha256.Sum256([]byte(id))
	hash := hex.EncodeToString(sum[:])[:12]
	return id[:maxSeriesIDLength-len(hash)-1] + "-" + hash
}

// AttachInput is the host/provenance context attachEvent needs alongside
// the event itself.
type AttachInput struct {
	HostID    string
	HostName  string
	Organizer string
	SourceID  string
}

// AttachResult reports where the event landed and whether the series was
// newly created by this call.
type AttachResult struct {
	SeriesID string
	Host     models.HostInfo
	Created  bool
}

type Store struct {
	db *store.DB
}

func New(db *store.DB) *Store {
	return &Store{db: db}
}

// AttachEvent attaches event to the series keyed by (hostId, event.Title),
// creating it if absent, in a single transaction.
func (s *Store) AttachEvent(ctx context.Context, event *models.CanonicalEvent, in AttachInput) (AttachResult, error) {
	seriesID := BuildSeriesID(in.HostID, event.Title)
	var result AttachResult

	err := store.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		existing, err := store.GetForUpdate[models.EventSeries](ctx, tx, store.CollectionEventSeries, seriesID)
		created := false
		if errors.Is(err, store.ErrNotFound) {
			created = true
			existing = &models.EventSeries{
				ID:          seriesID,
				Title:       event.TitleOrFallback(),
				ContentType: models.ContentTypeEventSeries,
				Host: models.HostInfo{
					ID:        in.HostID,
					Name:      in.HostName,
					Organizer: in.Organizer,
					SourceIDs: []string{},
				},
				Source:    event.Source,
				CreatedAt: time.Now().UTC(),
			}
		} else if err != nil {
			return err
		}

		occurrence := buildOccurrence(event)
		existing.UpcomingOccurrences = mergeOccurrences(existing.UpcomingOccurrences, occurrence)
		existing.Tags = unionSorted(existing.Tags, event.Tags)
		existing.Host.SourceIDs = unionSorted(existing.Host.SourceIDs, []string{in.SourceID})
		existing.Breadcrumbs = appendSeriesBreadcrumb(existing.Breadcrumbs, event, in)

		refreshNext(existing)
		existing.UpdatedAt = time.Now().UTC()

		if _, err := store.Put(ctx, tx, store.CollectionEventSeries, seriesID, existing); err != nil {
			return err
		}

		result = AttachResult{SeriesID: seriesID, Host: existing.Host, Created: created}
		return nil
	})

	return result, err
}

func buildOccurrence(event *models.CanonicalEvent) models.Occurrence {
	var location *string
	if event.Venue != nil && event.Venue.RawLocation != "" {
		loc := event.Venue.RawLocation
		location = &loc
	}
	return models.Occurrence{
		EventID:   event.ID,
		Title:     event.TitleOrFallback(),
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
		Location:  location,
		Tags:      event.Tags,
	}
}

// mergeOccurrences filters out any existing occurrence sharing the new
// event's id or older than 24h, appends the new occurrence, sorts ascending
// by start time (tie-broken lexically by eventId), and caps at
// models.MaxUpcomingOccurrences.
func mergeOccurrences(existing []models.Occurrence, next models.Occurrence) []models.Occurrence {
	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	kept := make([]models.Occurrence, 0, len(existing)+1)
	for _, occ := range existing {
		if occ.EventID == next.EventID {
			continue
		}
		if occ.StartTime.Before(cutoff) {
			continue
		}
		kept = append(kept, occ)
	}
	kept = append(kept, next)

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].StartTime.Equal(kept[j].StartTime) {
			return kept[i].EventID < kept[j].EventID
		}
		return kept[i].StartTime.Before(kept[j].StartTime)
	})

	if len(kept) > models.MaxUpcomingOccurrences {
		kept = kept[:models.MaxUpcomingOccurrences]
	}
	return kept
}

func refreshNext(s *models.EventSeries) {
	s.Stats.UpcomingCount = len(s.UpcomingOccurrences)
	if len(s.UpcomingOccurrences) == 0 {
		s.NextOccurrence = nil
		s.NextStartTime = nil
		return
	}
	next := s.UpcomingOccurrences[0]
	s.NextOccurrence = &next
	s.NextStartTime = &next.StartTime
}

func appendSeriesBreadcrumb(chain []models.Breadcrumb, event *models.CanonicalEvent, in AttachInput) []models.Breadcrumb {
	for _, b := range chain {
		if b.SourceEventID == event.Source.SourceEventID {
			return chain
		}
	}
	return models.AppendBreadcrumb(chain, models.Breadcrumb{
		Type:          "series-attach",
		SourceID:      in.SourceID,
		SourceEventID: event.Source.SourceEventID,
		FetchedAt:     time.Now().UTC(),
	})
}

func unionSorted(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
