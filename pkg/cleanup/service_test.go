package cleanup

import (
	"testing"
	"time"

	"github.com/codeready-toolchain/pulsefeed/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestNewServiceCarriesConfig(t *testing.T) {
	cfg := &config.RetentionConfig{
		PastEventTTL:     90 * 24 * time.Hour,
		StaleProposalTTL: 30 * 24 * time.Hour,
		CleanupInterval:  12 * time.Hour,
	}
	svc := NewService(cfg, nil)
	assert.Same(t, cfg, svc.config)
}

func TestStartIsIdempotentWhileRunning(t *testing.T) {
	// Start requires a live *store.DB to actually run queries, so this only
	// exercises the cancel-guard without invoking runAll.
	svc := &Service{config: &config.RetentionConfig{CleanupInterval: time.Hour}}
	svc.cancel = func() {}
	svc.Start(nil)
	assert.NotNil(t, svc.cancel)
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	svc := &Service{config: &config.RetentionConfig{}}
	svc.Stop()
}
