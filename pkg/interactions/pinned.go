package interactions

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/codeready-toolchain/pulsefeed/pkg/ranker"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

const defaultPinnedWindowDays = 30

// PinnedWindow is the resolved [start, end) range getPinnedEvents queries
// over.
type PinnedWindow struct {
	Start time.Time
	End   time.Time
}

// PinnedEventsQuery is getPinnedEvents' input.
type PinnedEventsQuery struct {
	Mode     string
	Start    *time.Time
	End      *time.Time
	PageSize int
	PageToken string
}

// ResolveWindow builds the query window: mode=today resolves to the
// display-timezone calendar day; otherwise an explicit [start, end) with
// end required to be after start, defaulting to [now, now+30d).
func ResolveWindow(q PinnedEventsQuery, now time.Time, displayTZ string) (PinnedWindow, error) {
	if q.Mode == "today" {
		loc, err := time.LoadLocation(displayTZ)
		if err != nil {
			loc = time.UTC
		}
		local := now.In(loc)
		start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		return PinnedWindow{Start: start.UTC(), End: start.AddDate(0, 0, 1).UTC()}, nil
	}

	if q.Start == nil && q.End == nil {
		return PinnedWindow{Start: now, End: now.Add(defaultPinnedWindowDays * 24 * time.Hour)}, nil
	}
	if q.Start == nil || q.End == nil {
		return PinnedWindow{}, errors.New("both start and end must be provided together")
	}
	if !q.End.After(*q.Start) {
		return PinnedWindow{}, errors.New("end must be after start")
	}
	return PinnedWindow{Start: *q.Start, End: *q.End}, nil
}

// GetPinnedEvents implements getPinnedEvents (spec §4.11 step 2-4): direct
// pin entries inside the window, plus derived entries projected from series
// pins' upcoming occurrences, merged, sorted, and offset-paginated.
func (s *Store) GetPinnedEvents(ctx context.Context, userID string, window PinnedWindow, offset, pageSize int) ([]models.PinnedEvent, string, error) {
	direct, err := s.loadDirectPins(ctx, userID, window)
	if err != nil {
		return nil, "", err
	}
	directIDs := map[string]bool{}
	for _, p := range direct {
		directIDs[p.EventID] = true
	}

	derived, err := s.loadDerivedPins(ctx, userID, window, directIDs)
	if err != nil {
		return nil, "", err
	}

	merged := append(direct, derived...)
	sortPinnedEvents(merged)

	if offset >= len(merged) {
		return nil, "", nil
	}
	end := offset + pageSize
	if end > len(merged) {
		end = len(merged)
	}
	page := merged[offset:end]
	var nextToken string
	if end < len(merged) {
		nextToken = ranker.EncodePageToken(end)
	}
	return page, nextToken, nil
}

func sortPinnedEvents(events []models.PinnedEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].EventStartTime.Equal(events[j].EventStartTime) {
			return events[i].EventStartTime.Before(events[j].EventStartTime)
		}
		if !events[i].PinnedAt.Equal(events[j].PinnedAt) {
			return events[i].PinnedAt.After(events[j].PinnedAt)
		}
		return events[i].EventID < events[j].EventID
	})
}

func (s *Store) loadDirectPins(ctx context.Context, userID string, window PinnedWindow) ([]models.PinnedEvent, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT doc FROM documents
		WHERE collection = $1
		  AND doc ->> 'userId' = $2
		  AND (doc ->> 'eventStartTime')::timestamptz >= $3
		  AND (doc ->> 'eventStartTime')::timestamptz < $4
		ORDER BY (doc ->> 'eventStartTime')::timestamptz ASC, doc ->> 'eventId' ASC
	`, string(store.CollectionPinnedEventEntries), userID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PinnedEvent
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p models.PinnedEvent
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) loadDerivedPins(ctx context.Context, userID string, window PinnedWindow, suppress map[string]bool) ([]models.PinnedEvent, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT doc FROM documents
		WHERE collection = $1 AND doc ->> 'userId' = $2
	`, string(store.CollectionPinnedEventSeries), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pinnedSeries []models.PinnedSeries
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p models.PinnedSeries
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		pinnedSeries = append(pinnedSeries, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []models.PinnedEvent
	for _, ps := range pinnedSeries {
		series, err := store.Get[models.EventSeries](ctx, s.db.Pool, store.CollectionEventSeries, ps.SeriesID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, occ := range series.UpcomingOccurrences {
			if suppress[occ.EventID] {
				continue
			}
			if occ.StartTime.Before(window.Start) || !occ.StartTime.Before(window.End) {
				continue
			}
			out = append(out, models.PinnedEvent{
				UserID:         userID,
				EventID:        occ.EventID,
				Title:          occ.Title,
				Location:       occ.Location,
				Tags:           occ.Tags,
				EventStartTime: occ.StartTime,
				EventEndTime:   occ.EndTime,
				ContentType:    models.ContentTypeEvent,
				Source:         series.Source,
				SeriesID:       &ps.SeriesID,
				SeriesTitle:    &series.Title,
				HostName:       ps.HostName,
				PinnedAt:       ps.PinnedAt,
				Derived:        true,
			})
		}
	}
	return out, nil
}
