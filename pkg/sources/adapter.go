// Package sources implements the C1 source-adapter abstraction: fetching
// raw items from a pluggable external backend (calendar or feed API) and
// normalizing them into canonical event records.
package sources

import (
	"context"
	"encoding/json"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
)

// Window bounds a fetch to a half-open UTC range. A zero Window means the
// adapter falls back to its own default lookback/lookahead.
type Window struct {
	Start        time.Time
	EndExclusive time.Time
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.EndExclusive.IsZero()
}

// RawEventPayload is one unprocessed item returned by fetchRawEvents,
// carrying enough identity to be normalized independently of its siblings.
type RawEventPayload struct {
	SourceID      string
	SourceEventID string
	FetchedAt     time.Time
	FetchedURL    string // secret-redacted before being attached to breadcrumbs
	Raw           json.RawMessage
}

// HostContext is the organizer/host information derived alongside a
// normalized event, used by C5 to key the event's series.
type HostContext struct {
	HostIDSeed string
	HostName   string
	Organizer  string
}

// NormalizedEvent is the result of normalize(payload).
type NormalizedEvent struct {
	Event       models.CanonicalEvent
	RawSnapshot json.RawMessage
	Host        HostContext
}

// Adapter is the C1 contract: fetch raw items for a window, then normalize
// each one independently so a single bad payload never aborts the batch.
type Adapter interface {
	SourceID() string
	FetchRawEvents(ctx context.Context, window Window) ([]RawEventPayload, error)
	Normalize(payload RawEventPayload) (NormalizedEvent, error)
}
