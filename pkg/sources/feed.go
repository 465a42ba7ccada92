package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
)

// feedPage is the shape of a generic community-content JSON feed: a flat
// item list plus an opaque cursor for the next page.
type feedPage struct {
	Items      []feedItem `json:"items"`
	NextCursor string     `json:"nextCursor"`
}

type feedItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	TimeZone    string    `json:"timeZone"`
	Location    string    `json:"location"`
	Organizer   string    `json:"organizer"`
	Price       string    `json:"price"`
	Status      string    `json:"status"`
	URL         string    `json:"url"`
}

// FeedAdapter implements Adapter against a generic cursor-paginated JSON
// feed, for non-calendar sources.
type FeedAdapter struct {
	sourceID    string
	displayName string
	baseURL     string
	organizer   string
	fetcher     *Fetcher
}

func NewFeedAdapter(sourceID, displayName, baseURL, organizer string, fetcher *Fetcher) *FeedAdapter {
	return &FeedAdapter{
		sourceID:    sourceID,
		displayName: displayName,
		baseURL:     baseURL,
		organizer:   organizer,
		fetcher:     fetcher,
	}
}

func (a *FeedAdapter) SourceID() string { return a.sourceID }

func (a *FeedAdapter) FetchRawEvents(ctx context.Context, window Window) ([]RawEventPayload, error) {
	firstURL, err := a.windowURL(window)
	if err != nil {
		return nil, fmt.Errorf("build feed request url: %w", err)
	}

	var payloads []RawEventPayload
	fetchedAt := time.Now().UTC()

	pageURL := firstURL
	for i := 0; i < a.fetcher.MaxPages; i++ {
		var page feedPage
		if err := a.fetcher.GetJSON(ctx, pageURL, &page); err != nil {
			return payloads, fmt.Errorf("fetch feed page: %w", err)
		}

		for _, item := range page.Items {
			raw, err := json.Marshal(item)
			if err != nil {
				continue
			}
			payloads = append(payloads, RawEventPayload{
				SourceID:      a.sourceID,
				SourceEventID: item.ID,
				FetchedAt:     fetchedAt,
				FetchedURL:    RedactURL(pageURL),
				Raw:           raw,
			})
		}

		if page.NextCursor == "" {
			break
		}
		pageURL, err = withQueryParam(firstURL, "cursor", page.NextCursor)
		if err != nil {
			return payloads, err
		}
	}

	return payloads, nil
}

func (a *FeedAdapter) windowURL(window Window) (string, error) {
	if window.IsZero() {
		return a.baseURL, nil
	}
	u, err := withQueryParam(a.baseURL, "start", window.Start.Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return withQueryParam(u, "end", window.EndExclusive.Format(time.RFC3339))
}

func (a *FeedAdapter) Normalize(payload RawEventPayload) (NormalizedEvent, error) {
	var item feedItem
	if err := json.Unmarshal(payload.Raw, &item); err != nil {
		return NormalizedEvent{}, fmt.Errorf("unmarshal feed item: %w", err)
	}

	organizer := a.organizer
	if item.Organizer != "" {
		organizer = item.Organizer
	}
	host := DeriveHostContext(organizer, a.displayName, a.sourceID)

	var description, price, status, organizerPtr, tz *string
	if item.Description != "" {
		description = &item.Description
	}
	if item.Price != "" {
		price = &item.Price
	}
	if item.Status != "" {
		status = &item.Status
	}
	if organizer != "" {
		organizerPtr = &organizer
	}
	if item.TimeZone != "" {
		tz = &item.TimeZone
	}

	source := models.EventSource{
		SourceID:      a.sourceID,
		SourceEventID: item.ID,
		SourceURL:     RedactURL(item.URL),
	}

	event := models.CanonicalEvent{
		ID:            source.ID(),
		Title:         item.Title,
		Description:   description,
		StartTime:     item.StartTime,
		EndTime:       item.EndTime,
		TimeZone:      tz,
		Organizer:     organizerPtr,
		Price:         price,
		Status:        status,
		Source:        source,
		LastFetchedAt: payload.FetchedAt,
		LastUpdatedAt: payload.FetchedAt,
	}
	if item.Location != "" {
		event.Venue = &models.Venue{RawLocation: item.Location}
	}

	return NormalizedEvent{Event: event, RawSnapshot: payload.Raw, Host: host}, nil
}
