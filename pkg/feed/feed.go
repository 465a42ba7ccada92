// Package feed assembles feed candidates from the event and series stores,
// groups category-eligible series into bundles (C10), ranks the combined
// set (C9), and paginates the result for GET /feed.
package feed

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/bundler"
	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/codeready-toolchain/pulsefeed/pkg/profile"
	"github.com/codeready-toolchain/pulsefeed/pkg/ranker"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

const defaultExploitRatio = 0.8

// Query is the resolved GET /feed request.
type Query struct {
	UserID    string
	Start     time.Time
	End       time.Time
	Tags      []string
	PageSize  int
	PageToken string
}

// Result is the GET /feed response payload.
type Result struct {
	Count         int
	Events        []ranker.Scored
	NextPageToken string
	IsCaughtUp    bool
	WindowStart   time.Time
	WindowEnd     time.Time
	Personalized  bool
}

// Service assembles and ranks candidates for the feed endpoint.
type Service struct {
	db       *store.DB
	profiles *profile.Builder
	bundles  *bundler.Store
	exploit  float64
	rng      *rand.Rand
}

func New(db *store.DB, exploitRatio float64) *Service {
	if exploitRatio <= 0 || exploitRatio > 1 {
		exploitRatio = defaultExploitRatio
	}
	return &Service{
		db:       db,
		profiles: profile.New(db),
		bundles:  bundler.New(db),
		exploit:  exploitRatio,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Query implements the feed request path: load candidates in the window,
// bundle category-eligible series, rank against the user's profile (if any),
// apply the exploration mix, and paginate.
func (s *Service) Query(ctx context.Context, q Query) (*Result, error) {
	offset, err := ranker.DecodePageToken(q.PageToken)
	if err != nil {
		return nil, err
	}

	standaloneEvents, err := s.loadCandidateEvents(ctx, q.Start, q.End, q.Tags)
	if err != nil {
		return nil, err
	}
	allSeries, err := s.loadCandidateSeries(ctx, q.Start, q.End, q.Tags)
	if err != nil {
		return nil, err
	}

	grouped, ungrouped := partitionSeries(allSeries)

	var userID string
	if q.UserID != "" {
		userID = q.UserID
	}
	bundles, err := s.bundles.BuildBundles(ctx, userID, grouped)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.ContentItem, 0, len(standaloneEvents)+len(ungrouped)+len(bundles))
	for i := range standaloneEvents {
		candidates = append(candidates, &standaloneEvents[i])
	}
	for i := range ungrouped {
		candidates = append(candidates, &ungrouped[i])
	}
	for _, b := range bundles {
		candidates = append(candidates, b)
	}

	var prof *models.UserProfile
	personalized := false
	if q.UserID != "" {
		prof, err = s.profiles.BuildUserProfile(ctx, q.UserID)
		if err != nil {
			return nil, err
		}
		personalized = prof.HasEnoughDataForPersonalization() && len(prof.Embedding) > 0
	}
	if prof == nil {
		prof = &models.UserProfile{}
	}

	now := time.Now().UTC()
	ranked := ranker.Rank(candidates, prof, now)
	if personalized {
		ranked = ranker.ApplyExplorationMix(ranked, s.exploit, s.rng)
	}

	page, nextToken := ranker.Page(ranked, offset, q.PageSize)
	return &Result{
		Count:         len(page),
		Events:        page,
		NextPageToken: nextToken,
		IsCaughtUp:    nextToken == "",
		WindowStart:   q.Start,
		WindowEnd:     q.End,
		Personalized:  personalized,
	}, nil
}

// loadCandidateEvents loads standalone events (no seriesId) whose startTime
// falls in [start, end), optionally filtered to events carrying at least one
// of tags.
func (s *Service) loadCandidateEvents(ctx context.Context, start, end time.Time, tags []string) ([]models.CanonicalEvent, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT doc FROM documents
		WHERE collection = $1
		  AND doc ->> 'seriesId' IS NULL
		  AND (doc ->> 'startTime')::timestamptz >= $2
		  AND (doc ->> 'startTime')::timestamptz < $3
		  AND ($4::text[] IS NULL OR doc -> 'tags' ?| $4::text[])
	`, string(store.CollectionEvents), start, end, tagsArg(tags))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CanonicalEvent
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var e models.CanonicalEvent
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// loadCandidateSeries loads series whose nextStartTime falls in
// [start, end), optionally filtered by tags.
func (s *Service) loadCandidateSeries(ctx context.Context, start, end time.Time, tags []string) ([]models.EventSeries, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT doc FROM documents
		WHERE collection = $1
		  AND doc ->> 'nextStartTime' IS NOT NULL
		  AND (doc ->> 'nextStartTime')::timestamptz >= $2
		  AND (doc ->> 'nextStartTime')::timestamptz < $3
		  AND ($4::text[] IS NULL OR doc -> 'tags' ?| $4::text[])
	`, string(store.CollectionEventSeries), start, end, tagsArg(tags))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EventSeries
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var sr models.EventSeries
		if err := json.Unmarshal(raw, &sr); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func tagsArg(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// partitionSeries splits series eligible for category bundling (both hostId
// and categoryId present) from series that are fed into the ranker
// individually.
func partitionSeries(all []models.EventSeries) (grouped, ungrouped []models.EventSeries) {
	for _, sr := range all {
		if sr.Host.ID != "" && sr.CategoryID != nil && *sr.CategoryID != "" {
			grouped = append(grouped, sr)
			continue
		}
		ungrouped = append(ungrouped, sr)
	}
	return grouped, ungrouped
}
