package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/pulsefeed/pkg/config"
)

func TestNewDefaultsToUTCOnUnknownTimezone(t *testing.T) {
	cfg := config.DefaultIngestConfig()
	reg := config.NewSourceRegistry(nil)
	s, err := New(cfg, "Not/A/Zone", reg, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, s.cron)
}

func TestSetActiveCountAndRecordRunUpdateStatus(t *testing.T) {
	cfg := config.DefaultIngestConfig()
	reg := config.NewSourceRegistry(nil)
	s, err := New(cfg, "UTC", reg, nil, nil)
	require.NoError(t, err)

	s.setActiveCount(3)
	s.recordRun(nil)

	health := s.Health()
	assert.Equal(t, 3, health.ActiveSources)
	assert.Equal(t, 1, health.RunsCompleted)
	assert.Empty(t, health.LastRunError)
	assert.False(t, health.LastRunAt.IsZero())
}

func TestRecordRunCapturesLastError(t *testing.T) {
	cfg := config.DefaultIngestConfig()
	reg := config.NewSourceRegistry(nil)
	s, err := New(cfg, "UTC", reg, nil, nil)
	require.NoError(t, err)

	s.recordRun(errors.New("boom"))
	assert.Equal(t, "boom", s.Health().LastRunError)

	s.recordRun(nil)
	assert.Empty(t, s.Health().LastRunError)
}

func TestQueueDepthSetAndDecrement(t *testing.T) {
	cfg := config.DefaultIngestConfig()
	reg := config.NewSourceRegistry(nil)
	s, err := New(cfg, "UTC", reg, nil, nil)
	require.NoError(t, err)

	s.setQueueDepth(2)
	assert.Equal(t, 2, s.Health().QueueDepth)

	s.decrementQueueDepth()
	assert.Equal(t, 1, s.Health().QueueDepth)

	s.decrementQueueDepth()
	assert.Equal(t, 0, s.Health().QueueDepth)

	s.decrementQueueDepth()
	assert.Equal(t, 0, s.Health().QueueDepth, "queue depth never goes negative")
}

func TestRunAllWithNoSourcesRecordsRunWithoutError(t *testing.T) {
	cfg := config.DefaultIngestConfig()
	reg := config.NewSourceRegistry(nil)
	s, err := New(cfg, "UTC", reg, nil, nil)
	require.NoError(t, err)

	require.NoError(t, s.runAll(context.Background()))
	health := s.Health()
	assert.Equal(t, 0, health.ActiveSources)
	assert.Equal(t, 1, health.RunsCompleted)
}

func TestRunSourceReturnsErrorForUnknownSource(t *testing.T) {
	cfg := config.DefaultIngestConfig()
	reg := config.NewSourceRegistry(nil)
	s, err := New(cfg, "UTC", reg, nil, nil)
	require.NoError(t, err)

	err = s.RunSource(nil, "missing")
	assert.Error(t, err)
}
