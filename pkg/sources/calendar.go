package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
)

// calendarPage mirrors the shape of a Google-Calendar-style events.list
// response requested with singleEvents=true: recurrences are expanded
// server-side and items arrive already ordered by start time, so the
// adapter never has to walk an RRULE itself.
type calendarPage struct {
	Items         []calendarItem `json:"items"`
	NextPageToken string         `json:"nextPageToken"`
}

type calendarItem struct {
	ID          string         `json:"id"`
	Summary     string         `json:"summary"`
	Description string         `json:"description"`
	Start       calendarTime   `json:"start"`
	End         calendarTime   `json:"end"`
	Location    string         `json:"location"`
	Organizer   *calendarActor `json:"organizer"`
	Status      string         `json:"status"`
	HTMLLink    string         `json:"htmlLink"`
}

type calendarTime struct {
	DateTime *time.Time `json:"dateTime,omitempty"`
	Date     string     `json:"date,omitempty"`
	TimeZone string     `json:"timeZone,omitempty"`
}

type calendarActor struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// CalendarAdapter implements Adapter against a calendar API that supports
// singleEvents expansion and start-time ordering.
type CalendarAdapter struct {
	sourceID    string
	displayName string
	baseURL     string
	organizer   string
	fetcher     *Fetcher
}

func NewCalendarAdapter(sourceID, displayName, baseURL, organizer string, fetcher *Fetcher) *CalendarAdapter {
	return &CalendarAdapter{
		sourceID:    sourceID,
		displayName: displayName,
		baseURL:     baseURL,
		organizer:   organizer,
		fetcher:     fetcher,
	}
}

func (a *CalendarAdapter) SourceID() string { return a.sourceID }

func (a *CalendarAdapter) FetchRawEvents(ctx context.Context, window Window) ([]RawEventPayload, error) {
	firstURL, err := a.windowURL(window)
	if err != nil {
		return nil, fmt.Errorf("build calendar request url: %w", err)
	}

	var payloads []RawEventPayload
	fetchedAt := time.Now().UTC()

	pageURL := firstURL
	for i := 0; i < a.fetcher.MaxPages; i++ {
		var page calendarPage
		if err := a.fetcher.GetJSON(ctx, pageURL, &page); err != nil {
			return payloads, fmt.Errorf("fetch calendar page: %w", err)
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

		if page.NextPageToken == "" {
			break
		}
		pageURL, err = withQueryParam(firstURL, "pageToken", page.NextPageToken)
		if err != nil {
			return payloads, err
		}
	}

	return payloads, nil
}

func (a *CalendarAdapter) windowURL(window Window) (string, error) {
	u := a.baseURL
	var err error
	u, err = withQueryParam(u, "singleEvents", "true")
	if err != nil {
		return "", err
	}
	u, err = withQueryParam(u, "orderBy", "startTime")
	if err != nil {
		return "", err
	}
	if !window.IsZero() {
		u, err = withQueryParam(u, "timeMin", window.Start.Format(time.RFC3339))
		if err != nil {
			return "", err
		}
		u, err = withQueryParam(u, "timeMax", window.EndExclusive.Format(time.RFC3339))
		if err != nil {
			return "", err
		}
	}
	return u, nil
}

func (a *CalendarAdapter) Normalize(payload RawEventPayload) (NormalizedEvent, error) {
	var item calendarItem
	if err := json.Unmarshal(payload.Raw, &item); err != nil {
		return NormalizedEvent{}, fmt.Errorf("unmarshal calendar item: %w", err)
	}

	start, allDay, tz, err := item.Start.resolve()
	if err != nil {
		return NormalizedEvent{}, fmt.Errorf("resolve start time: %w", err)
	}

	var endPtr *time.Time
	if end, _, _, err := item.End.resolve(); err == nil && !end.IsZero() {
		endPtr = &end
	}

	var description *string
	if item.Description != "" {
		description = &item.Description
	}
	var status *string
	if item.Status != "" {
		status = &item.Status
	}

	organizer := a.organizer
	if item.Organizer != nil && item.Organizer.DisplayName != "" {
		organizer = item.Organizer.DisplayName
	}
	host := DeriveHostContext(organizer, a.displayName, a.sourceID)

	var organizerPtr *string
	if organizer != "" {
		organizerPtr = &organizer
	}

	source := models.EventSource{
		SourceID:      a.sourceID,
		SourceEventID: item.ID,
		SourceURL:     RedactURL(item.HTMLLink),
	}

	event := models.CanonicalEvent{
		ID:            source.ID(),
		Title:         item.Summary,
		Description:   description,
		StartTime:     start,
		EndTime:       endPtr,
		TimeZone:      nonEmptyPtr(tz),
		IsAllDay:      &allDay,
		Organizer:     organizerPtr,
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

func (t calendarTime) resolve() (start time.Time, allDay bool, timeZone string, err error) {
	if t.DateTime != nil {
		return *t.DateTime, false, t.TimeZone, nil
	}
	if t.Date != "" {
		d, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			return time.Time{}, false, "", err
		}
		return d, true, t.TimeZone, nil
	}
	return time.Time{}, false, "", nil
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
