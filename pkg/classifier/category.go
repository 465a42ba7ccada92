package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// CategoryOption is one existing category offered to the classifier as a
// reuse candidate.
type CategoryOption struct {
	Name         string
	SampleTitles []string
}

// CategoryInput is the C6 category-classifier request shape.
type CategoryInput struct {
	SeriesTitle string
	Existing    []CategoryOption
}

// CategoryAction is the classifier's declared intent; the caller still
// re-derives reuse via case/accent-insensitive name matching regardless of
// this value, per spec.md §4.6 step 4.
type CategoryAction string

const (
	CategoryActionUseExisting CategoryAction = "use-existing"
	CategoryActionCreateNew   CategoryAction = "create-new"
)

// CategorySuggestion is the classifier's parsed response.
type CategorySuggestion struct {
	Name   string
	Action CategoryAction
	Reason string
}

type categoryRequest struct {
	Model       string `json:"model"`
	Temperature float64 `json:"temperature"`
	Prompt      string `json:"prompt"`
}

// categoryResponse is the strict JSON shape spec.md §4.6 requires:
// {category:{name, action, reason?}}.
type categoryResponse struct {
	Category struct {
		Name   string `json:"name"`
		Action string `json:"action"`
		Reason string `json:"reason"`
	} `json:"category"`
}

// ClassifyCategory asks the LLM whether a series should join an existing
// host category or form a new one.
func (c *Client) ClassifyCategory(ctx context.Context, in CategoryInput) (CategorySuggestion, error) {
	reqBody := categoryRequest{
		Model:       c.llm.Model,
		Temperature: 0,
		Prompt:      categoryPrompt(in),
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return CategorySuggestion{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.llm.BaseURL+"/classify-category", bytes.NewReader(payload))
	if err != nil {
		return CategorySuggestion{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.llmAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.llmAPIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return CategorySuggestion{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return CategorySuggestion{}, fmt.Errorf("llm provider returned status %d", resp.StatusCode)
	}

	var parsed categoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return CategorySuggestion{}, fmt.Errorf("decode category response: %w", err)
	}

	return CategorySuggestion{
		Name:   strings.TrimSpace(parsed.Category.Name),
		Action: CategoryAction(parsed.Category.Action),
		Reason: parsed.Category.Reason,
	}, nil
}

func categoryPrompt(in CategoryInput) string {
	var b strings.Builder
	b.WriteString("Assign a host-scoped category to this event series. Prefer reusing an existing category over creating a new one. New category names are 2-4 words; instructional/recurring class series favor class-explicit names.\n")
	fmt.Fprintf(&b, "Series title: %s\n", in.SeriesTitle)
	if len(in.Existing) == 0 {
		b.WriteString("Existing categories: none\n")
	} else {
		b.WriteString("Existing categories:\n")
		for _, opt := range in.Existing {
			fmt.Fprintf(&b, "- %s (samples: %s)\n", opt.Name, strings.Join(opt.SampleTitles, ", "))
		}
	}
	return b.String()
}
