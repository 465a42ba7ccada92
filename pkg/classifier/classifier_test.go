package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codeready-toolchain/pulsefeed/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeOrderedByConfidence(t *testing.T) {
	tags := dedupeOrderedByConfidence([]Candidate{
		{Tag: "yoga", Confidence: 0.5},
		{Tag: "wellness", Confidence: 0.9},
		{Tag: "yoga", Confidence: 0.95},
	})
	assert.Equal(t, []string{"wellness", "yoga"}, tags)
}

func TestEnrichedText(t *testing.T) {
	text := enrichedText("Community Yoga", "Free outdoor class", []string{"yoga", "wellness"})
	assert.Contains(t, text, "Community Yoga")
	assert.Contains(t, text, "Related topics: yoga, wellness")
}

func TestClassifyTagsFiltersStopWordsAndSlugifies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tagResponse{
			Tags: []struct {
				Label      string  `json:"label"`
				Category   string  `json:"category"`
				Confidence float64 `json:"confidence"`
			}{
				{Label: "Yoga", Category: "activity", Confidence: 0.9},
				{Label: "the", Category: "filler", Confidence: 0.1},
				{Label: "Outdoor Fitness", Category: "topic", Confidence: 0.8},
			},
		})
	}))
	defer server.Close()

	client := New(config.LLMProviderConfig{BaseURL: server.URL, Model: "test-model"}, config.EmbeddingProviderConfig{Dimension: 3}, nil)

	candidates, err := client.classifyTags(context.Background(), "Community Yoga", "Free class")
	require.NoError(t, err)

	tagSet := map[string]bool{}
	for _, c := range candidates {
		tagSet[c.Tag] = true
	}
	assert.True(t, tagSet["yoga"])
	assert.True(t, tagSet["outdoor-fitness"])
	assert.False(t, tagSet["the"])
}

func TestClassifyTagsOnErrorReturnsEmptyNeverRaises(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := New(config.LLMProviderConfig{BaseURL: server.URL, Model: "test-model"}, config.EmbeddingProviderConfig{Dimension: 3}, nil)

	candidates, llmUsed := client.classifyTagsSafely(context.Background(), "Title", "Description")
	assert.Nil(t, candidates)
	assert.False(t, llmUsed)
}

func TestEmbedManyRespectsBatchLimit(t *testing.T) {
	var callCount int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		var req embedRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		vectors := make([][]float64, len(req.Input))
		for i := range vectors {
			vectors[i] = []float64{1, 2, 3}
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Vectors: vectors})
	}))
	defer server.Close()

	client := New(config.LLMProviderConfig{BaseURL: server.URL}, config.EmbeddingProviderConfig{BaseURL: server.URL, Dimension: 3, BatchLimit: 2}, nil)

	vectors, err := client.embedMany(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Len(t, vectors, 5)
	assert.Equal(t, 3, callCount)
}

func TestEmbedRejectsWrongDimension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Vectors: [][]float64{{1, 2}}})
	}))
	defer server.Close()

	client := New(config.LLMProviderConfig{BaseURL: server.URL}, config.EmbeddingProviderConfig{BaseURL: server.URL, Dimension: 5}, nil)

	_, err := client.embed(context.Background(), "text")
	assert.Error(t, err)
}

func TestClassifyReturnsTagsWithoutEmbedding(t *testing.T) {
	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tagResponse{
			Tags: []struct {
				Label      string  `json:"label"`
				Category   string  `json:"category"`
				Confidence float64 `json:"confidence"`
			}{{Label: "Yoga", Category: "activity", Confidence: 0.9}},
		})
	}))
	defer llmServer.Close()

	client := New(
		config.LLMProviderConfig{BaseURL: llmServer.URL, Model: "test-model"},
		config.EmbeddingProviderConfig{Dimension: 3},
		nil,
	)

	result, err := client.Classify(context.Background(), Input{Title: "Event", Description: "Desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"yoga"}, result.Tags)
	assert.Equal(t, true, result.Metadata["llmUsed"])
}

func TestEmbedManyViaClientWrapsUnexportedBatching(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		vectors := make([][]float64, len(req.Input))
		for i := range vectors {
			vectors[i] = []float64{1, 2, 3}
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Vectors: vectors})
	}))
	defer server.Close()

	client := New(config.LLMProviderConfig{BaseURL: server.URL}, config.EmbeddingProviderConfig{BaseURL: server.URL, Dimension: 3}, nil)

	vectors, err := client.EmbedMany(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vectors, 2)
}
