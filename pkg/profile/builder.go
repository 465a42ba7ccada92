// Package profile implements the C8 user profile builder: deriving an
// on-demand personalization profile from a user's recent interaction
// history.
package profile

import (
	"context"
	"encoding/json"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

const (
	maxRecentInteractions = 200
	embeddingChunkSize    = 10
)

// Builder derives UserProfile records from stored interactions and the
// embeddings of the content the user positively engaged with.
type Builder struct {
	db *store.DB
}

func New(db *store.DB) *Builder {
	return &Builder{db: db}
}

// BuildUserProfile implements buildUserProfile(userId).
func (b *Builder) BuildUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	interactions, err := b.loadRecentInteractions(ctx, userID, maxRecentInteractions)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		UserID:              userID,
		ContentTypeAffinity: contentTypeAffinity(interactions),
		TimeOfDayPatterns:   timeOfDayPatterns(interactions),
		EngagementStyle:     engagementStyle(interactions),
		TotalInteractions:   len(interactions),
	}
	if len(interactions) > 0 {
		profile.LastActiveAt = interactions[0].Timestamp
	}

	embedding, err := b.embeddingCentroid(ctx, interactions)
	if err != nil {
		return nil, err
	}
	profile.Embedding = embedding

	return profile, nil
}

// HasEnoughDataForPersonalization implements
// hasEnoughDataForPersonalization(userId).
func (b *Builder) HasEnoughDataForPersonalization(ctx context.Context, userID string) (bool, error) {
	count, err := b.countInteractions(ctx, userID)
	if err != nil {
		return false, err
	}
	return count >= models.MinInteractionsForPersonalization, nil
}

func (b *Builder) loadRecentInteractions(ctx context.Context, userID string, limit int) ([]models.UserInteraction, error) {
	rows, err := b.db.Pool.Query(ctx, `
		SELECT doc FROM documents
		WHERE collection = $1 AND doc ->> 'userId' = $2
		ORDER BY (doc ->> 'timestamp') DESC
		LIMIT $3
	`, string(store.CollectionInteractions), userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserInteraction
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var interaction models.UserInteraction
		if err := json.Unmarshal(raw, &interaction); err != nil {
			return nil, err
		}
		out = append(out, interaction)
	}
	return out, rows.Err()
}

func (b *Builder) countInteractions(ctx context.Context, userID string) (int, error) {
	var count int
	err := b.db.Pool.QueryRow(ctx, `
		SELECT count(*) FROM documents WHERE collection = $1 AND doc ->> 'userId' = $2
	`, string(store.CollectionInteractions), userID).Scan(&count)
	return count, err
}

// embeddingCentroid implements the embedding component of buildUserProfile:
// content touched by a positive action, read in chunks of embeddingChunkSize,
// averaged element-wise. Returns nil if no positively-engaged content has an
// embedding.
func (b *Builder) embeddingCentroid(ctx context.Context, interactions []models.UserInteraction) ([]float64, error) {
	var targets []models.UserInteraction
	for _, i := range interactions {
		if models.PositiveActions[i.Action] {
			targets = append(targets, i)
		}
	}
	if len(targets) == 0 {
		return nil, nil
	}

	var sum []float64
	var n int
	for start := 0; start < len(targets); start += embeddingChunkSize {
		end := start + embeddingChunkSize
		if end > len(targets) {
			end = len(targets)
		}
		for _, t := range targets[start:end] {
			vector, err := b.loadVector(ctx, t.ContentID, t.ContentType)
			if err != nil {
				return nil, err
			}
			if vector == nil {
				continue
			}
			if sum == nil {
				sum = make([]float64, len(vector))
			}
			for i, v := range vector {
				sum[i] += v
			}
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	for i := range sum {
		sum[i] /= float64(n)
	}
	return sum, nil
}

func (b *Builder) loadVector(ctx context.Context, contentID string, contentType models.ContentType) ([]float64, error) {
	var collection store.Collection
	switch contentType {
	case models.ContentTypeEvent:
		collection = store.CollectionEvents
	case models.ContentTypeEventSeries:
		collection = store.CollectionEventSeries
	default:
		return nil, nil
	}

	var raw []byte
	err := b.db.Pool.QueryRow(ctx, `
		SELECT doc -> 'vector' FROM documents WHERE collection = $1 AND id = $2
	`, string(collection), contentID).Scan(&raw)
	if err != nil {
		// missing content should not abort centroid computation
		return nil, nil
	}
	var vector []float64
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, nil
	}
	return vector, nil
}
