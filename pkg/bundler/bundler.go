// Package bundler implements the C10 category bundler: grouping candidate
// series by (hostId, categoryId) into synthetic "new items in category X"
// ContentItems, diffed against each user's per-category last-seen version.
package bundler

import (
	"context"
	"errors"
	"sort"
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

// group is one (hostId, categoryId) partition of candidate series.
type group struct {
	hostID     string
	categoryID string
	series     []models.EventSeries
}

// BuildBundles partitions candidates by (hostId, categoryId), hydrates each
// group's full member set from the category document, diffs against the
// user's UserCategoryBundleState, and emits one synthetic CategoryBundle
// ContentItem per group that has something new to show.
func (s *Store) BuildBundles(ctx context.Context, userID string, candidates []models.EventSeries) ([]*models.CategoryBundle, error) {
	groups := partition(candidates)
	if len(groups) == 0 {
		return nil, nil
	}

	bundles := make([]*models.CategoryBundle, 0, len(groups))
	for _, g := range groups {
		cat, err := store.Get[models.EventCategory](ctx, s.db.Pool, store.CollectionEventCategories, g.categoryID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}

		members, err := s.hydrateMembers(ctx, cat, g.series)
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			continue
		}

		state, err := s.loadState(ctx, userID, cat.ID)
		if err != nil {
			return nil, err
		}

		newSeriesIDs := diffNewSeries(cat, state)
		if state != nil && len(newSeriesIDs) == 0 {
			continue
		}

		bundles = append(bundles, buildBundle(cat, g.hostID, members, newSeriesIDs))
	}
	return bundles, nil
}

// partition groups series by (hostId, categoryId); series missing either
// key are dropped, since they cannot resolve to a category document.
func partition(candidates []models.EventSeries) []*group {
	index := map[string]*group{}
	var ordered []*group
	for _, series := range candidates {
		if series.CategoryID == nil || *series.CategoryID == "" || series.Host.ID == "" {
			continue
		}
		key := series.Host.ID + "|" + *series.CategoryID
		g, ok := index[key]
		if !ok {
			g = &group{hostID: series.Host.ID, categoryID: *series.CategoryID}
			index[key] = g
			ordered = append(ordered, g)
		}
		g.series = append(g.series, series)
	}
	return ordered
}

// hydrateMembers resolves the category's full seriesIds against the
// candidate window, falling back to fetching any member not already
// present among candidates so the bundle reflects the whole category.
func (s *Store) hydrateMembers(ctx context.Context, cat *models.EventCategory, windowed []models.EventSeries) ([]models.EventSeries, error) {
	byID := map[string]models.EventSeries{}
	for _, series := range windowed {
		byID[series.ID] = series
	}

	members := make([]models.EventSeries, 0, len(cat.SeriesIDs))
	for _, id := range cat.SeriesIDs {
		if series, ok := byID[id]; ok {
			members = append(members, series)
			continue
		}
		series, err := store.Get[models.EventSeries](ctx, s.db.Pool, store.CollectionEventSeries, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}
		members = append(members, *series)
	}

	sort.SliceStable(members, func(i, j int) bool {
		return earliestStart(members[i]) < earliestStart(members[j])
	})
	return members, nil
}

func earliestStart(series models.EventSeries) int64 {
	if series.NextStartTime == nil {
		return int64(^uint64(0) >> 1)
	}
	return series.NextStartTime.UnixNano()
}

func (s *Store) loadState(ctx context.Context, userID, categoryID string) (*models.UserCategoryBundleState, error) {
	id := userID + ":" + categoryID
	state, err := store.Get[models.UserCategoryBundleState](ctx, s.db.Pool, store.CollectionCategoryBundles, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return state, err
}

// diffNewSeries implements spec step 4: a nil state means the user has
// never seen this category, so the entire set is new. Otherwise union the
// changeLog entries newer than lastSeenVersion, falling back to the full
// set if the category has moved on but no changeLog entry covers the gap.
func diffNewSeries(cat *models.EventCategory, state *models.UserCategoryBundleState) []string {
	if state == nil {
		return append([]string(nil), cat.SeriesIDs...)
	}

	seen := map[string]bool{}
	var union []string
	for _, entry := range cat.ChangeLog {
		if entry.Version <= state.LastSeenVersion {
			continue
		}
		for _, id := range entry.AddedSeriesIDs {
			if !seen[id] {
				seen[id] = true
				union = append(union, id)
			}
		}
	}

	if len(union) == 0 && cat.Version > state.LastSeenVersion {
		return append([]string(nil), cat.SeriesIDs...)
	}
	return union
}

func buildBundle(cat *models.EventCategory, hostID string, members []models.EventSeries, newSeriesIDs []string) *models.CategoryBundle {
	seriesIDs := make([]string, len(members))
	for i, m := range members {
		seriesIDs[i] = m.ID
	}

	displaySeries := newSeriesIDs
	firstTime := len(newSeriesIDs) == len(seriesIDs) && equalSet(newSeriesIDs, seriesIDs)
	if firstTime {
		displaySeries = seriesIDs
	}

	hostName := ""
	tags := unionTags(members)
	embedding := meanEmbedding(members)
	stats := sumStats(members)

	for _, m := range members {
		if m.Host.Name != "" {
			hostName = m.Host.Name
			break
		}
	}

	return &models.CategoryBundle{
		ID:        models.BundleID(cat.ID),
		Title:     cat.Name + " · " + hostName,
		Tags:      tags,
		Embedding: embedding,
		Stats:     stats,
		CreatedAt: cat.UpdatedAt,
		Metadata: models.BundleMetadata{
			CategoryID:       cat.ID,
			HostID:           hostID,
			SeriesIDs:        seriesIDs,
			NewSeriesIDs:     newSeriesIDs,
			DisplaySeries:    displaySeries,
			TotalSeriesCount: len(seriesIDs),
			BundleState:      models.BundleState{CategoryID: cat.ID, Version: cat.Version},
		},
	}
}

func unionTags(members []models.EventSeries) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range members {
		for _, t := range m.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out
}

func meanEmbedding(members []models.EventSeries) []float64 {
	var dim int
	for _, m := range members {
		if len(m.Vector) > 0 {
			dim = len(m.Vector)
			break
		}
	}
	if dim == 0 {
		return nil
	}

	sum := make([]float64, dim)
	count := 0
	for _, m := range members {
		if len(m.Vector) != dim {
			continue
		}
		for i, v := range m.Vector {
			sum[i] += v
		}
		count++
	}
	if count == 0 {
		return nil
	}
	for i := range sum {
		sum[i] /= float64(count)
	}
	return sum
}

func sumStats(members []models.EventSeries) models.ContentStats {
	var out models.ContentStats
	for _, m := range members {
		s := m.ItemStats()
		out.Views += s.Views
		out.Likes += s.Likes
		out.Shares += s.Shares
		out.Bookmarks += s.Bookmarks
	}
	return out
}

func equalSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := map[string]bool{}
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if !set[v] {
			return false
		}
	}
	return true
}

// MarkSeen refreshes the user's per-category last-seen version, invoked by
// the interactions service (C11) whenever a bundle interaction is recorded.
func (s *Store) MarkSeen(ctx context.Context, userID, categoryID string, version int) error {
	id := userID + ":" + categoryID
	state := models.UserCategoryBundleState{
		UserID:          userID,
		CategoryID:      categoryID,
		LastSeenVersion: version,
		LastSeenAt:      time.Now().UTC(),
	}
	_, err := store.Put(ctx, s.db.Pool, store.CollectionCategoryBundles, id, &state)
	return err
}
