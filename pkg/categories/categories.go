// Package categories implements the C6 category-assignment operation:
// grouping a host's series into user-facing categories via an LLM
// classifier, with case/accent-insensitive reuse matching overriding the
// classifier's declared intent.
package categories

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/codeready-toolchain/pulsefeed/pkg/classifier"
	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/codeready-toolchain/pulsefeed/pkg/slug"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

const maxExistingCategorySamples = 5

type Store struct {
	db         *store.DB
	classifier *classifier.Client
}

func New(db *store.DB, classifier *classifier.Client) *Store {
	return &Store{db: db, classifier: classifier}
}

// CategoryID derives the deterministic category document id
// "category:{hash12(hostId:name-lowercased)}".
func CategoryID(hostID, name string) string {
	sum := sha256.Sum256([]byte(hostID + ":" + strings.ToLower(name)))
	return "category:" + hex.EncodeToString(sum[:])[:12]
}

// AssignInput is the series context assignSeries needs.
type AssignInput struct {
	SeriesID string
	Host     models.HostInfo
	Force    bool
}

// Assignment is the result of assignSeries. When the series was already
// categorized and Force was false, it carries the existing category and no
// change is made.
type Assignment struct {
	CategoryID   string
	CategoryName string
}

// AssignSeries assigns a host-scoped category to the series, reusing an
// existing one whenever the classifier's suggestion matches an existing
// category name case/accent-insensitively.
func (s *Store) AssignSeries(ctx context.Context, in AssignInput) (*Assignment, error) {
	seriesSnapshot, err := store.Get[models.EventSeries](ctx, s.db.Pool, store.CollectionEventSeries, in.SeriesID)
	if err != nil {
		return nil, err
	}
	if !in.Force && seriesSnapshot.CategoryID != nil {
		return &Assignment{CategoryID: *seriesSnapshot.CategoryID, CategoryName: derefOr(seriesSnapshot.CategoryName, "")}, nil
	}

	existing, err := s.listByHost(ctx, in.Host.ID)
	if err != nil {
		return nil, err
	}

	suggestion, err := s.classifier.ClassifyCategory(ctx, classifier.CategoryInput{
		SeriesTitle: seriesSnapshot.Title,
		Existing:    toOptions(existing),
	})
	if err != nil {
		return nil, err
	}
	if suggestion.Name == "" {
		suggestion.Name = seriesSnapshot.Title
	}

	matched := matchExisting(existing, suggestion.Name)

	var assignment *Assignment
	if matched != nil {
		assignment, err = s.reuseCategory(ctx, matched, in.SeriesID, seriesSnapshot.Title, seriesSnapshot.Tags)
	} else {
		assignment, err = s.createCategory(ctx, in.Host.ID, suggestion.Name, in.SeriesID, seriesSnapshot.Title, seriesSnapshot.Tags)
	}
	if err != nil {
		return nil, err
	}

	if seriesSnapshot.CategoryID != nil && *seriesSnapshot.CategoryID != assignment.CategoryID {
		if err := s.removeFromOldCategory(ctx, *seriesSnapshot.CategoryID, in.SeriesID); err != nil {
			return nil, err
		}
	}

	categorySlug := slug.Slugify(assignment.CategoryName)
	if err := store.Touch(ctx, s.db.Pool, store.CollectionEventSeries, in.SeriesID, map[string]any{
		"categoryId":   assignment.CategoryID,
		"categoryName": assignment.CategoryName,
		"categorySlug": categorySlug,
		"updatedAt":    time.Now().UTC(),
	}); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *Store) listByHost(ctx context.Context, hostID string) ([]models.EventCategory, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT doc FROM documents
		WHERE collection = $1 AND doc ->> 'hostId' = $2
	`, string(store.CollectionEventCategories), hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EventCategory
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var c models.EventCategory
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) reuseCategory(ctx context.Context, matched *models.EventCategory, seriesID, seriesTitle string, seriesTags []string) (*Assignment, error) {
	var assignment *Assignment
	err := store.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		cat, err := store.GetForUpdate[models.EventCategory](ctx, tx, store.CollectionEventCategories, matched.ID)
		if err != nil {
			return err
		}

		if !cat.HasSeries(seriesID) {
			cat.Version++
			cat.SeriesIDs = append(cat.SeriesIDs, seriesID)
			cat.ChangeLog = append(cat.ChangeLog, models.ChangeLogEntry{
				Version:           cat.Version,
				AddedSeriesIDs:    []string{seriesID},
				AddedSeriesTitles: []string{seriesTitle},
				CreatedAt:         time.Now().UTC(),
			})
			if len(cat.ChangeLog) > models.MaxChangeLogEntries {
				cat.ChangeLog = cat.ChangeLog[len(cat.ChangeLog)-models.MaxChangeLogEntries:]
			}
			cat.SampleSeriesTitles = prependSample(cat.SampleSeriesTitles, seriesTitle)
			cat.Tags = unionTags(cat.Tags, seriesTags)
			cat.UpdatedAt = time.Now().UTC()

			if _, err := store.Put(ctx, tx, store.CollectionEventCategories, cat.ID, cat); err != nil {
				return err
			}
		}

		assignment = &Assignment{CategoryID: cat.ID, CategoryName: cat.Name}
		return nil
	})
	return assignment, err
}

func (s *Store) createCategory(ctx context.Context, hostID, name, seriesID, seriesTitle string, seriesTags []string) (*Assignment, error) {
	id := CategoryID(hostID, name)
	now := time.Now().UTC()
	cat := &models.EventCategory{
		ID:                 id,
		HostID:             hostID,
		Name:               name,
		Slug:               slug.Slugify(name),
		Tags:               unionTags(nil, seriesTags),
		SampleSeriesTitles: []string{seriesTitle},
		SeriesIDs:          []string{seriesID},
		Version:            1,
		ChangeLog: []models.ChangeLogEntry{{
			Version:           1,
			AddedSeriesIDs:    []string{seriesID},
			AddedSeriesTitles: []string{seriesTitle},
			CreatedAt:         now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := store.Put(ctx, s.db.Pool, store.CollectionEventCategories, id, cat); err != nil {
		return nil, err
	}
	return &Assignment{CategoryID: id, CategoryName: name}, nil
}

// unionTags merges additions into existing, de-duplicating and capping at
// models.MaxCategoryTags, preserving existing's order.
func unionTags(existing, additions []string) []string {
	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing)+len(additions))
	for _, t := range existing {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, t := range additions {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) > models.MaxCategoryTags {
		out = out[:models.MaxCategoryTags]
	}
	return out
}

func (s *Store) removeFromOldCategory(ctx context.Context, oldCategoryID, seriesID string) error {
	return store.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		old, err := store.GetForUpdate[models.EventCategory](ctx, tx, store.CollectionEventCategories, oldCategoryID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		old.RemoveSeries(seriesID)
		old.UpdatedAt = time.Now().UTC()
		_, err = store.Put(ctx, tx, store.CollectionEventCategories, oldCategoryID, old)
		return err
	})
}

// matchExisting finds the existing category whose name case/accent-
// insensitively equals name, overriding whatever action the classifier
// declared (spec.md §4.6 step 4).
func matchExisting(existing []models.EventCategory, name string) *models.EventCategory {
	folded := slug.FoldName(name)
	for i := range existing {
		if slug.FoldName(existing[i].Name) == folded {
			return &existing[i]
		}
	}
	return nil
}

func toOptions(existing []models.EventCategory) []classifier.CategoryOption {
	out := make([]classifier.CategoryOption, 0, len(existing))
	for _, c := range existing {
		samples := c.SampleSeriesTitles
		if len(samples) > maxExistingCategorySamples {
			samples = samples[:maxExistingCategorySamples]
		}
		out = append(out, classifier.CategoryOption{Name: c.Name, SampleTitles: samples})
	}
	return out
}

func prependSample(samples []string, title string) []string {
	out := make([]string, 0, len(samples)+1)
	out = append(out, title)
	for _, s := range samples {
		if s == title {
			continue
		}
		out = append(out, s)
	}
	if len(out) > models.MaxSampleSeriesTitles {
		out = out[:models.MaxSampleSeriesTitles]
	}
	return out
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
