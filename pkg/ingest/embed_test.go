package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/pulsefeed/pkg/classifier"
	"github.com/codeready-toolchain/pulsefeed/pkg/config"
	"github.com/codeready-toolchain/pulsefeed/pkg/models"
	"github.com/codeready-toolchain/pulsefeed/pkg/sources"
)

type embedRequestBody struct {
	Input []string `json:"input"`
}

func TestEmbedBatchesAllEligibleEntriesInOneCall(t *testing.T) {
	var callCount int
	var lastBatchSize int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		var req embedRequestBody
		_ = json.NewDecoder(r.Body).Decode(&req)
		lastBatchSize = len(req.Input)
		vectors := make([][]float64, len(req.Input))
		for i := range vectors {
			vectors[i] = []float64{0.1, 0.2, 0.3}
		}
		_ = json.NewEncoder(w).Encode(struct {
			Vectors [][]float64 `json:"vectors"`
		}{Vectors: vectors})
	}))
	defer server.Close()

	client := classifier.New(
		config.LLMProviderConfig{BaseURL: server.URL},
		config.EmbeddingProviderConfig{BaseURL: server.URL, Dimension: 3},
		nil,
	)
	o := &Orchestrator{Classifier: client}

	withTags := &preparedEvent{normalized: sources.NormalizedEvent{Event: models.CanonicalEvent{ID: "e1", Title: "Yoga"}}, tags: []string{"yoga"}}
	noTags := &preparedEvent{normalized: sources.NormalizedEvent{Event: models.CanonicalEvent{ID: "e2", Title: "Mystery"}}}
	reused := &preparedEvent{normalized: sources.NormalizedEvent{Event: models.CanonicalEvent{ID: "e3", Title: "Reused"}}, tags: []string{"reused"}, reuseClassification: true}
	failed := &preparedEvent{failed: true}

	prepared := []*preparedEvent{withTags, noTags, reused, failed}
	o.embed(context.Background(), prepared)

	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, lastBatchSize)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, withTags.vector)
	assert.Nil(t, noTags.vector)
	assert.Nil(t, reused.vector)
	assert.Nil(t, failed.vector)
}

func TestEmbedSkipsCallWhenNoEligibleEntries(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := classifier.New(
		config.LLMProviderConfig{BaseURL: server.URL},
		config.EmbeddingProviderConfig{BaseURL: server.URL, Dimension: 3},
		nil,
	)
	o := &Orchestrator{Classifier: client}

	prepared := []*preparedEvent{{failed: true}, {reuseClassification: true, tags: []string{"x"}}}
	o.embed(context.Background(), prepared)

	assert.False(t, called)
}

func TestEmbedTextBuildsEnrichedString(t *testing.T) {
	require.Equal(t, "Title\nDesc\n\nRelated topics: a, b", classifier.EmbedText("Title", "Desc", []string{"a", "b"}))
}
