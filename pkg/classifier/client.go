// Package classifier implements the C2 classifier gateway: a narrow HTTP
// client over an LLM tag-classification endpoint and an embedding
// endpoint, exposing the single `classify` operation the ingest
// orchestrator calls.
package classifier

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/config"
)

const defaultTimeout = 20 * time.Second

// Client wraps the two C2 provider contracts behind plain HTTP+JSON, per
// DESIGN.md's note on why this is HTTP rather than the teacher's gRPC
// transport.
type Client struct {
	httpClient *http.Client

	llm       config.LLMProviderConfig
	llmAPIKey string

	embedding       config.EmbeddingProviderConfig
	embeddingAPIKey string

	stopWordBlocklist []string
}

// New builds a Client from the active LLM and embedding providers.
func New(llm config.LLMProviderConfig, embedding config.EmbeddingProviderConfig, stopWordBlocklist []string) *Client {
	timeout := defaultTimeout
	if llm.TimeoutSecs > 0 {
		timeout = time.Duration(llm.TimeoutSecs) * time.Second
	}
	return &Client{
		httpClient:        &http.Client{Timeout: timeout},
		llm:               llm,
		llmAPIKey:         os.Getenv(llm.APIKeyEnv),
		embedding:         embedding,
		embeddingAPIKey:   os.Getenv(embedding.APIKeyEnv),
		stopWordBlocklist: stopWordBlocklist,
	}
}

// Result is what classify() returns to the orchestrator.
type Result struct {
	Tags       []string
	Candidates []Candidate
	Vector     []float64
	Metadata   map[string]any
}

// Candidate mirrors models.Candidate but stays local to the gateway until
// the orchestrator attaches it to a CanonicalEvent.
type Candidate struct {
	Tag        string
	Confidence float64
	Rationale  string
	Source     string
}

// Input is the classify() request shape.
type Input struct {
	Title       string
	Description string
}

// Classify runs phase 1, the tag-classification call, only. Embedding is a
// separate phase (EmbedMany) so the orchestrator can batch it across every
// non-reuse entry in one request instead of one call per event.
func (c *Client) Classify(ctx context.Context, in Input) (Result, error) {
	candidates, llmUsed := c.classifyTagsSafely(ctx, in.Title, in.Description)
	tags := dedupeOrderedByConfidence(candidates)

	return Result{
		Tags:       tags,
		Candidates: candidates,
		Metadata: map[string]any{
			"llmUsed": llmUsed,
		},
	}, nil
}

// EmbedText builds the enriched embedding input for one event from its
// title, description, and classified tags.
func EmbedText(title, description string, tags []string) string {
	return enrichedText(title, description, tags)
}

// EmbedMany runs phase 2, a single batched embedding call (chunked to the
// provider's configured batch limit) over every text passed in, preserving
// order.
func (c *Client) EmbedMany(ctx context.Context, texts []string) ([][]float64, error) {
	return c.embedMany(ctx, texts)
}

// enrichedText builds the embedding input spec.md §4.2 specifies:
// "title\ndescription\n\nRelated topics: t1, t2, ...".
func enrichedText(title, description string, tags []string) string {
	text := title + "\n" + description
	if len(tags) > 0 {
		text += "\n\nRelated topics: "
		for i, t := range tags {
			if i > 0 {
				text += ", "
			}
			text += t
		}
	}
	return text
}
