package sources

import (
	"fmt"

	"github.com/codeready-toolchain/pulsefeed/pkg/config"
)

// Build constructs the concrete adapter for a SourceConfig.
func Build(cfg config.SourceConfig, fetcher *Fetcher) (Adapter, error) {
	switch cfg.Kind {
	case config.SourceKindCalendar:
		return NewCalendarAdapter(cfg.ID, cfg.DisplayName, cfg.URL, cfg.Organizer, fetcher), nil
	case config.SourceKindFeed:
		return NewFeedAdapter(cfg.ID, cfg.DisplayName, cfg.URL, cfg.Organizer, fetcher), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q for source %q", cfg.Kind, cfg.ID)
	}
}
