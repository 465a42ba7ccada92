package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/codeready-toolchain/pulsefeed/pkg/slug"
)

const maxSuggestions = 15

type tagRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Prompt      string  `json:"prompt"`
	MaxTags     int     `json:"maxTags"`
}

// tagResponse is the strict JSON shape spec.md §4.2 requires:
// {tags:[{label,category,confidence}]}.
type tagResponse struct {
	Tags []struct {
		Label      string  `json:"label"`
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	} `json:"tags"`
}

// classifyTagsSafely calls the LLM tag endpoint. Any failure — transport,
// non-2xx, or malformed JSON — degrades to an empty candidate list rather
// than propagating, per spec.md's "on parse error: return empty list;
// never raise".
func (c *Client) classifyTagsSafely(ctx context.Context, title, description string) ([]Candidate, bool) {
	candidates, err := c.classifyTags(ctx, title, description)
	if err != nil {
		return nil, false
	}
	return candidates, true
}

func (c *Client) classifyTags(ctx context.Context, title, description string) ([]Candidate, error) {
	reqBody := tagRequest{
		Model:       c.llm.Model,
		Temperature: 0,
		Prompt:      tagPrompt(title, description),
		MaxTags:     maxSuggestions,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.llm.BaseURL+"/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.llmAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.llmAPIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("llm provider returned status %d", resp.StatusCode)
	}

	var parsed tagResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(parsed.Tags))
	for _, t := range parsed.Tags {
		label := slug.Slugify(t.Label)
		if label == "" || slug.IsStopWord(label, c.stopWordBlocklist) {
			continue
		}
		candidates = append(candidates, Candidate{
			Tag:        label,
			Confidence: t.Confidence,
			Rationale:  t.Category,
			Source:     "llm",
		})
	}
	return candidates, nil
}

func tagPrompt(title, description string) string {
	return fmt.Sprintf(
		"Suggest up to %d noun or noun-phrase tags for the following event, spanning specific topic, activity type, broader category, audience, and vibe.\nTitle: %s\nDescription: %s",
		maxSuggestions, title, description,
	)
}

// dedupeOrderedByConfidence returns tag labels ordered by descending
// confidence with duplicates removed, keeping the first (highest-ranked)
// occurrence of each slug.
func dedupeOrderedByConfidence(candidates []Candidate) []string {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	seen := make(map[string]bool, len(sorted))
	tags := make([]string, 0, len(sorted))
	for _, c := range sorted {
		if seen[c.Tag] {
			continue
		}
		seen[c.Tag] = true
		tags = append(tags, c.Tag)
	}
	return tags
}
