// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ArchiveCleaner deletes archived documents older than a given age
type ArchiveCleaner interface {
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// ArchiveCleanupConfig holds archive retention settings
type ArchiveCleanupConfig struct {
	// Retention is the age after which archived PDFs are removed
	Retention time.Duration
	// Interval between sweeps
	Interval time.Duration
	// Timeout bounds a single sweep
	Timeout time.Duration
}

// DefaultArchiveCleanupConfig returns a 30 day retention swept hourly
func DefaultArchiveCleanupConfig() ArchiveCleanupConfig {
	return ArchiveCleanupConfig{
		Retention: 30 * 24 * time.Hour,
		Interval:  time.Hour,
		Timeout:   5 * time.Minute,
	}
}

// Validate checks the configuration
func (c ArchiveCleanupConfig) Validate() error {
	if c.Retention <= 0 {
		return fmt.Errorf("%w: retention must be positive", ErrInvalidConfig)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// ArchiveCleanupScheduler periodically removes expired archived PDFs
type ArchiveCleanupScheduler struct {
	config  ArchiveCleanupConfig
	cleaner ArchiveCleaner
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	sweeping  atomic.Bool
	removed   atomic.Int64
}

// NewArchiveCleanupScheduler creates a new cleanup scheduler
func NewArchiveCleanupScheduler(config ArchiveCleanupConfig, cleaner ArchiveCleaner, logger *zap.Logger) (*ArchiveCleanupScheduler, error) {
	if cleaner == nil {
		return nil, fmt.Errorf("%w: cleaner is required", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Timeout <= 0 {
		config.Timeout = config.Interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveCleanupScheduler{
		config:  config,
		cleaner: cleaner,
		logger:  logger,
	}, nil
}

// Start runs a first sweep immediately and then one per interval
func (s *ArchiveCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Archive cleanup scheduler started",
		zap.Duration("retention", s.config.Retention),
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop stops the scheduler, waiting for a running sweep until ctx is done
func (s *ArchiveCleanupScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Archive cleanup scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Archive cleanup scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the scheduler loop is active
func (s *ArchiveCleanupScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Removed returns the number of documents deleted since creation
func (s *ArchiveCleanupScheduler) Removed() int64 {
	return s.removed.Load()
}

func (s *ArchiveCleanupScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	s.sweep(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ArchiveCleanupScheduler) sweep(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("Archive cleanup failed", zap.Error(err))
	}
}

// RunOnce performs a single sweep and returns the number of deleted
// documents. Concurrent calls fail with ErrCleanupInProgress.
func (s *ArchiveCleanupScheduler) RunOnce(ctx context.Context) (int, error) {
	if !s.sweeping.CompareAndSwap(false, true) {
		return 0, ErrCleanupInProgress
	}
	defer s.sweeping.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	n, err := s.cleaner.CleanupOlderThan(ctx, s.config.Retention)
	s.removed.Add(int64(n))
	if err != nil {
		return n, fmt.Errorf("cleanup archived PDFs: %w", err)
	}
	if n > 0 {
		s.logger.Info("Expired PDFs removed from archive",
			zap.Int("removed", n),
			zap.Duration("duration", time.Since(start)),
		)
	} else {
		s.logger.Debug("No expired PDFs in archive")
	}
	return n, nil
}
