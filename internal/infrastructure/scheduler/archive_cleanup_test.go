package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockArchiveCleaner struct {
	mock.Mock
}

func (m *MockArchiveCleaner) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	args := m.Called(ctx, age)
	return args.Int(0), args.Error(1)
}

// blockingCleaner blocks until release is closed
type blockingCleaner struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingCleaner) CleanupOlderThan(ctx context.Context, _ time.Duration) (int, error) {
	b.once.Do(func() { close(b.started) })
	select {
	case <-b.release:
		return 1, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

type countingCleaner struct {
	calls atomic.Int32
}

func (c *countingCleaner) CleanupOlderThan(context.Context, time.Duration) (int, error) {
	c.calls.Add(1)
	return 0, nil
}

func testConfig() ArchiveCleanupConfig {
	return ArchiveCleanupConfig{
		Retention: 24 * time.Hour,
		Interval:  time.Hour,
		Timeout:   time.Second,
	}
}

func TestNewArchiveCleanupScheduler(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		s, err := NewArchiveCleanupScheduler(testConfig(), new(MockArchiveCleaner), nil)
		require.NoError(t, err)
		assert.False(t, s.IsRunning())
	})

	t.Run("default config is valid", func(t *testing.T) {
		assert.NoError(t, DefaultArchiveCleanupConfig().Validate())
	})

	tests := []struct {
		name    string
		config  ArchiveCleanupConfig
		cleaner ArchiveCleaner
	}{
		{"nil cleaner", testConfig(), nil},
		{"zero retention", ArchiveCleanupConfig{Interval: time.Hour}, new(MockArchiveCleaner)},
		{"zero interval", ArchiveCleanupConfig{Retention: time.Hour}, new(MockArchiveCleaner)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewArchiveCleanupScheduler(tt.config, tt.cleaner, zap.NewNop())
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestArchiveCleanupScheduler_RunOnce(t *testing.T) {
	t.Run("passes retention and counts removals", func(t *testing.T) {
		cleaner := new(MockArchiveCleaner)
		cleaner.On("CleanupOlderThan", mock.Anything, 24*time.Hour).Return(3, nil).Twice()
		s, err := NewArchiveCleanupScheduler(testConfig(), cleaner, nil)
		require.NoError(t, err)

		n, err := s.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		_, err = s.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(6), s.Removed())
		cleaner.AssertExpectations(t)
	})

	t.Run("wraps cleaner errors", func(t *testing.T) {
		cleaner := new(MockArchiveCleaner)
		cleaner.On("CleanupOlderThan", mock.Anything, mock.Anything).Return(1, errors.New("bucket unavailable"))
		s, err := NewArchiveCleanupScheduler(testConfig(), cleaner, nil)
		require.NoError(t, err)

		n, err := s.RunOnce(context.Background())
		assert.Equal(t, 1, n)
		assert.EqualError(t, err, "cleanup archived PDFs: bucket unavailable")
		assert.Equal(t, int64(1), s.Removed())
	})

	t.Run("rejects concurrent sweeps", func(t *testing.T) {
		cleaner := &blockingCleaner{started: make(chan struct{}), release: make(chan struct{})}
		s, err := NewArchiveCleanupScheduler(testConfig(), cleaner, nil)
		require.NoError(t, err)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = s.RunOnce(context.Background())
		}()
		<-cleaner.started

		_, err = s.RunOnce(context.Background())
		assert.ErrorIs(t, err, ErrCleanupInProgress)

		close(cleaner.release)
		<-done
	})
}

func TestArchiveCleanupScheduler_StartStop(t *testing.T) {
	cleaner := &countingCleaner{}
	cfg := testConfig()
	cfg.Interval = 10 * time.Millisecond
	s, err := NewArchiveCleanupScheduler(cfg, cleaner, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background())) // second start is a no-op
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool {
		return cleaner.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
}

func TestArchiveCleanupScheduler_StopCancelsSweep(t *testing.T) {
	cleaner := &blockingCleaner{started: make(chan struct{}), release: make(chan struct{})}
	s, err := NewArchiveCleanupScheduler(testConfig(), cleaner, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	<-cleaner.started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
