package printing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScratchFilePattern matches the job files written by ScratchStorage
const ScratchFilePattern = "print_job_*.pdf"

// ScratchStorageConfig contains configuration for scratch storage
type ScratchStorageConfig struct {
	// Dir is the directory holding job files
	// Default: <os temp dir>/cloud-printer
	Dir     string
	Logger  *zap.Logger
	Metrics *Metrics
}

// ScratchStorage manages the short-lived PDF files handed to the print helper
type ScratchStorage struct {
	dir     string
	logger  *zap.Logger
	metrics *Metrics

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// NewScratchStorage creates the scratch directory if needed
func NewScratchStorage(config *ScratchStorageConfig) (*ScratchStorage, error) {
	if config == nil {
		config = &ScratchStorageConfig{}
	}

	dir := config.Dir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "cloud-printer")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, printing.NewError(printing.ErrCodeRenderFailed,
			"failed to create scratch directory: "+dir, err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ScratchStorage{
		dir:     dir,
		logger:  logger,
		metrics: config.Metrics,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Dir returns the scratch directory
func (s *ScratchStorage) Dir() string {
	return s.dir
}

// NewPath returns a fresh file path for a job's document. Two calls never
// return the same path, even for the same job id.
func (s *ScratchStorage) NewPath(id printing.JobID) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return filepath.Join(s.dir, id.FileName(token))
}

// Delete removes a job file. A file that is already gone is not an error.
func (s *ScratchStorage) Delete(path string) error {
	if !s.contains(path) {
		s.logger.Warn("path escape attempt blocked", zap.String("path", path), zap.String("dir", s.dir))
		return printing.NewError(printing.ErrCodeCleanupFailed, "path is outside the scratch directory", nil)
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		s.metrics.IncCleanup("failed")
		return printing.NewError(printing.ErrCodeCleanupFailed, "failed to delete job file", err)
	}

	s.metrics.IncCleanup("success")
	s.logger.Info("job file deleted", zap.String("path", path))
	return nil
}

// DeleteNow removes a job file, logging instead of returning failures
func (s *ScratchStorage) DeleteNow(path string) {
	if err := s.Delete(path); err != nil {
		s.logger.Error("job file cleanup failed", zap.String("path", path), zap.Error(err))
	}
}

// ScheduleDelete removes a job file after delay without blocking the caller.
// The deletion stays pending until it runs or Flush is called. Scheduling a
// path that is already pending keeps the earlier deadline.
func (s *ScratchStorage) ScheduleDelete(path string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[path]; ok {
		return
	}
	s.wg.Add(1)
	s.pending[path] = time.AfterFunc(delay, func() {
		s.runPending(path)
	})
	s.logger.Debug("job file deletion scheduled", zap.String("path", path), zap.Duration("delay", delay))
}

// Pending returns the number of scheduled deletions that have not run yet
func (s *ScratchStorage) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush waits for every scheduled deletion to run. Once ctx is done the
// remaining deletions run immediately. No deletion may be scheduled while
// Flush is running.
func (s *ScratchStorage) Flush(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-ctx.Done():
	}

	s.mu.Lock()
	paths := make([]string, 0, len(s.pending))
	for path, timer := range s.pending {
		timer.Stop()
		delete(s.pending, path)
		paths = append(paths, path)
	}
	s.mu.Unlock()

	if len(paths) > 0 {
		s.logger.Info("deleting job files ahead of schedule", zap.Int("count", len(paths)))
	}
	for _, path := range paths {
		s.DeleteNow(path)
		s.wg.Done()
	}
	<-done
}

// runPending deletes path unless Flush already claimed it
func (s *ScratchStorage) runPending(path string) {
	s.mu.Lock()
	_, ok := s.pending[path]
	delete(s.pending, path)
	s.mu.Unlock()
	if !ok {
		return
	}

	defer s.wg.Done()
	s.DeleteNow(path)
}

// CleanupOlderThan removes job files older than age. Only names matching
// ScratchFilePattern directly inside the scratch directory are touched.
func (s *ScratchStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, ScratchFilePattern))
	if err != nil {
		return 0, printing.NewError(printing.ErrCodeCleanupFailed, "failed to list job files", err)
	}

	cutoff := time.Now().Add(-age)
	deletedCount := 0

	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return deletedCount, err
		}

		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err == nil {
			deletedCount++
			s.metrics.IncCleanup("success")
			s.logger.Debug("deleted stale job file", zap.String("path", path))
		}
	}

	s.logger.Info("stale job files cleanup completed",
		zap.Int("deleted", deletedCount),
		zap.Duration("age", age))

	return deletedCount, nil
}

// contains reports whether path resolves inside the scratch directory
func (s *ScratchStorage) contains(path string) bool {
	absBase, err := filepath.Abs(s.dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(absPath, absBase+string(filepath.Separator))
}
