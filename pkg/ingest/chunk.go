package ingest

import (
	"context"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/sources"
)

// RunChunked invokes RunWindow over successive sub-windows of chunkDays,
// covering [window.Start, window.Start+totalSpanDays) with the right
// boundary of each chunk exclusive, and aggregates their stats.
func (o *Orchestrator) RunChunked(ctx context.Context, adapter sources.Adapter, window sources.Window, chunkDays int, forceRefresh bool) (Stats, error) {
	total := Stats{}

	if window.IsZero() || chunkDays <= 0 {
		return o.RunWindow(ctx, adapter, window, forceRefresh)
	}

	chunkSpan := time.Duration(chunkDays) * 24 * time.Hour
	start := window.Start
	for start.Before(window.EndExclusive) {
		end := start.Add(chunkSpan)
		if end.After(window.EndExclusive) {
			end = window.EndExclusive
		}

		stats, err := o.RunWindow(ctx, adapter, sources.Window{Start: start, EndExclusive: end}, forceRefresh)
		if err != nil {
			return total, err
		}
		total.add(stats)

		start = end
	}

	return total, nil
}
