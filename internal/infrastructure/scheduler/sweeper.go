// Package scheduler runs periodic maintenance for the print service.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// StaleFileCleaner removes job files older than a given age
type StaleFileCleaner interface {
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// SweeperConfig holds configuration for the scratch sweeper
type SweeperConfig struct {
	// Interval is how often the sweep runs
	Interval time.Duration
	// MaxAge is the age after which a job file is considered abandoned
	MaxAge time.Duration
}

// DefaultSweeperConfig returns default sweeper configuration
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval: 15 * time.Minute,
		MaxAge:   time.Hour,
	}
}

// Sweeper periodically removes job files whose scheduled deletion never ran,
// e.g. because the helper still held the file open
type Sweeper struct {
	config  SweeperConfig
	cleaner StaleFileCleaner
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	runs      int
}

// NewSweeper creates a new sweeper
func NewSweeper(config SweeperConfig, cleaner StaleFileCleaner, logger *zap.Logger) *Sweeper {
	defaults := DefaultSweeperConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.MaxAge <= 0 {
		config.MaxAge = defaults.MaxAge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		config:  config,
		cleaner: cleaner,
		logger:  logger,
	}
}

// Start starts the sweep loop. Starting a running sweeper is a no-op.
func (s *Sweeper) Start(ctx context.Context) error {
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

	s.logger.Info("Scratch sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("max_age", s.config.MaxAge),
	)
	return nil
}

// Stop stops the sweep loop and waits for a running sweep to finish
func (s *Sweeper) Stop(ctx context.Context) error {
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
		s.logger.Info("Scratch sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the sweep loop is active
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Runs returns the number of completed sweeps
func (s *Sweeper) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Sweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

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

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.cleaner.CleanupOlderThan(ctx, s.config.MaxAge)

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("Scratch sweep failed", zap.Error(err))
		}
		return
	}
	if removed > 0 {
		s.logger.Info("Scratch sweep removed abandoned job files", zap.Int("count", removed))
	}
}
