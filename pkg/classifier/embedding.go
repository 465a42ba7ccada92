package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Vectors [][]float64 `json:"vectors"`
}

// embed returns the embedding vector for a single text.
func (c *Client) embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.embedMany(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding provider returned no vectors")
	}
	return vectors[0], nil
}

// embedMany batches an embedding call for multiple texts, respecting the
// provider's configured batch limit.
func (c *Client) embedMany(ctx context.Context, texts []string) ([][]float64, error) {
	limit := c.embedding.BatchLimit
	if limit <= 0 {
		limit = len(texts)
	}

	var out [][]float64
	for start := 0; start < len(texts); start += limit {
		end := start + limit
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return out, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	reqBody := embedRequest{Model: c.embedding.Model, Input: texts}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.embedding.BaseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.embeddingAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.embeddingAPIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding provider returned status %d", resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	for _, v := range parsed.Vectors {
		if len(v) != c.embedding.Dimension {
			return nil, fmt.Errorf("embedding provider returned vector of length %d, expected %d", len(v), c.embedding.Dimension)
		}
	}
	return parsed.Vectors, nil
}
