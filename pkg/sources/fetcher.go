package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/codeready-toolchain/pulsefeed/pkg/version"
)

// linearBackoff implements backoff.BackOff with the fixed attempt*250ms
// policy spec.md §4.1 specifies, returning backoff.Stop after maxAttempts
// delays.
type linearBackoff struct {
	unit        time.Duration
	maxAttempts int
	attempt     int
}

func newLinearBackoff(unit time.Duration, maxAttempts int) *linearBackoff {
	return &linearBackoff{unit: unit, maxAttempts: maxAttempts}
}

func (b *linearBackoff) NextBackOff() time.Duration {
	b.attempt++
	if b.attempt > b.maxAttempts {
		return backoff.Stop
	}
	return time.Duration(b.attempt) * b.unit
}

func (b *linearBackoff) Reset() {
	b.attempt = 0
}

// Fetcher performs HTTP GET requests against external sources with linear
// retry backoff and bounded pagination, shared by the calendar and feed
// adapters.
type Fetcher struct {
	Client      *http.Client
	BackoffUnit time.Duration
	MaxAttempts int
	MaxPages    int
}

// NewFetcher builds a Fetcher from ingest configuration defaults.
func NewFetcher(backoffUnit time.Duration, maxAttempts, maxPages int) *Fetcher {
	return &Fetcher{
		Client:      &http.Client{Timeout: 30 * time.Second},
		BackoffUnit: backoffUnit,
		MaxAttempts: maxAttempts,
		MaxPages:    maxPages,
	}
}

// GetJSON performs a single GET with retry, decoding the response body as
// JSON into out.
func (f *Fetcher) GetJSON(ctx context.Context, rawURL string, out any) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", version.Full())

		resp, err := f.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("upstream %s returned %d", RedactURL(rawURL), resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("upstream %s returned %d", RedactURL(rawURL), resp.StatusCode))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response from %s: %w", RedactURL(rawURL), err))
		}
		return nil
	}

	// backoff.Retry makes one call plus one per delay, so MaxAttempts-1
	// delays give MaxAttempts tries in all.
	bo := newLinearBackoff(f.BackoffUnit, f.MaxAttempts-1)
	return backoff.Retry(operation, backoff.WithContext(bo, ctx))
}

// PageFetcher fetches one page of a paginated listing; it returns the
// decoded page and whether a further page exists (and its token/URL).
type PageFetcher func(ctx context.Context, pageURL string) (page json.RawMessage, nextPageURL string, hasMore bool, err error)

// FetchAllPages walks a paginated listing starting at firstURL, stopping at
// f.MaxPages per spec.md §4.1's 25-page bound.
func (f *Fetcher) FetchAllPages(ctx context.Context, firstURL string, next PageFetcher) ([]json.RawMessage, error) {
	var pages []json.RawMessage
	pageURL := firstURL

	for i := 0; i < f.MaxPages; i++ {
		page, nextURL, hasMore, err := next(ctx, pageURL)
		if err != nil {
			return pages, err
		}
		pages = append(pages, page)
		if !hasMore || nextURL == "" {
			break
		}
		pageURL = nextURL
	}

	return pages, nil
}

// withQueryParam returns rawURL with key=value added to its query string.
func withQueryParam(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
