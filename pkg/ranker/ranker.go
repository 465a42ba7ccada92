// Package ranker implements the C9 feed ranker: six weighted sub-scores
// blended into one candidate ordering, plus an exploration mix and
// offset-based pagination.
package ranker

import (
	"math"
	"sort"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
)

const (
	weightTopic       = 0.40
	weightContentType = 0.25
	weightTime        = 0.15
	weightStyle       = 0.10
	weightRecency     = 0.05
	weightPopularity  = 0.05
)

// Scored is one ranked candidate.
type Scored struct {
	Item  models.ContentItem
	Score float64
}

// Rank implements C9: if the profile lacks the personalization threshold or
// has no embedding centroid, candidates are returned in ascending createdAt
// with all scores zero; otherwise every candidate is scored across six
// signals and sorted descending by the blended score.
func Rank(candidates []models.ContentItem, profile *models.UserProfile, now time.Time) []Scored {
	if !profile.HasEnoughDataForPersonalization() || len(profile.Embedding) == 0 {
		return coldStart(candidates)
	}

	nowBucket := models.BucketTimeOfDay(now.Hour())
	out := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Scored{Item: c, Score: score(c, profile, nowBucket, now)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func coldStart(candidates []models.ContentItem) []Scored {
	out := make([]Scored, len(candidates))
	for i, c := range candidates {
		out[i] = Scored{Item: c, Score: 0}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Item.ItemCreatedAt().Before(out[j].Item.ItemCreatedAt())
	})
	return out
}

func score(c models.ContentItem, profile *models.UserProfile, nowBucket models.TimeOfDay, now time.Time) float64 {
	topic := topicScore(c.ItemEmbedding(), profile.Embedding)
	contentType := contentTypeScore(c.ItemContentType(), profile.ContentTypeAffinity)
	timeOfDay := timeScore(nowBucket, profile.TimeOfDayPatterns)
	style := styleScore(c.ItemTitle(), profile.EngagementStyle)
	recency := recencyScore(c.ItemCreatedAt(), now)
	popularity := popularityScore(c.ItemStats())

	return weightTopic*topic +
		weightContentType*contentType +
		weightTime*timeOfDay +
		weightStyle*style +
		weightRecency*recency +
		weightPopularity*popularity
}

func topicScore(candidate, profile []float64) float64 {
	if len(candidate) == 0 || len(profile) == 0 {
		return 0
	}
	return cosineSimilarity(candidate, profile)
}

func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func contentTypeScore(contentType models.ContentType, affinity map[models.ContentType]float64) float64 {
	v, ok := affinity[contentType]
	if !ok {
		return 0.5
	}
	return (v + 1) / 2
}

func timeScore(nowBucket models.TimeOfDay, patterns map[models.TimeOfDay]int) float64 {
	var total int
	for _, v := range patterns {
		total += v
	}
	if total == 0 {
		return 0.5
	}
	return float64(patterns[nowBucket]) / float64(total)
}

func styleScore(title string, style models.EngagementStyle) float64 {
	titleLen := float64(len(title))
	switch {
	case style.IsDeepReader:
		return math.Min(titleLen/200, 1)
	case style.QuickBrowser:
		return math.Max(1-titleLen/200, 0)
	default:
		return 0.5
	}
}

func recencyScore(createdAt, now time.Time) float64 {
	ageHours := now.Sub(createdAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	return math.Exp(-ageHours / 24)
}

func popularityScore(stats models.ContentStats) float64 {
	if stats.Views == 0 {
		return 0
	}
	raw := (float64(stats.Likes) + 2*float64(stats.Shares) + 1.5*float64(stats.Bookmarks)) / float64(stats.Views) / 0.2
	return math.Min(raw, 1)
}
