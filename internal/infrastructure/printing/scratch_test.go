package printing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benossaliha2/cloud-printer/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScratch(t *testing.T) *ScratchStorage {
	t.Helper()
	s, err := NewScratchStorage(&ScratchStorageConfig{Dir: filepath.Join(t.TempDir(), "jobs")})
	require.NoError(t, err)
	return s
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))
}

func TestNewScratchStorage_CreatesDirectory(t *testing.T) {
	s := newTestScratch(t)

	info, err := os.Stat(s.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestScratchStorage_NewPath(t *testing.T) {
	s := newTestScratch(t)

	first := s.NewPath(printing.JobID("1700000000123"))
	second := s.NewPath(printing.JobID("1700000000123"))

	assert.NotEqual(t, first, second)
	for _, path := range []string{first, second} {
		assert.Equal(t, s.Dir(), filepath.Dir(path))
		assert.Regexp(t, `^print_job_1700000000123_[0-9a-f]{8}\.pdf$`, filepath.Base(path))
		matched, err := filepath.Match(ScratchFilePattern, filepath.Base(path))
		require.NoError(t, err)
		assert.True(t, matched)
	}
}

func TestScratchStorage_Delete(t *testing.T) {
	s := newTestScratch(t)
	path := s.NewPath("1")
	writeFile(t, path)

	require.NoError(t, s.Delete(path))
	assert.NoFileExists(t, path)

	// second delete of a missing file is fine
	assert.NoError(t, s.Delete(path))
}

func TestScratchStorage_DeleteOutsideDirectory(t *testing.T) {
	s := newTestScratch(t)
	outside := filepath.Join(t.TempDir(), "print_job_1.pdf")
	writeFile(t, outside)

	tests := []string{
		outside,
		filepath.Join(s.Dir(), "..", "print_job_1.pdf"),
		s.Dir(),
	}
	for _, path := range tests {
		err := s.Delete(path)
		require.Error(t, err, path)
		assert.ErrorIs(t, err, printing.NewError(printing.ErrCodeCleanupFailed, "", nil))
	}
	assert.FileExists(t, outside)
}

func TestScratchStorage_ScheduleDelete(t *testing.T) {
	s := newTestScratch(t)
	path := s.NewPath("2")
	writeFile(t, path)

	s.ScheduleDelete(path, 20*time.Millisecond)

	assert.FileExists(t, path)
	assert.Equal(t, 1, s.Pending())
	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 10*time.Millisecond)
}

func TestScratchStorage_FlushWaitsForDelay(t *testing.T) {
	s := newTestScratch(t)
	path := s.NewPath("3")
	writeFile(t, path)

	start := time.Now()
	s.ScheduleDelete(path, 50*time.Millisecond)
	s.Flush(context.Background())

	assert.NoFileExists(t, path)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, 0, s.Pending())
}

func TestScratchStorage_FlushDeletesWhenContextDone(t *testing.T) {
	s := newTestScratch(t)
	paths := []string{s.NewPath("4"), s.NewPath("5")}
	for _, p := range paths {
		writeFile(t, p)
		s.ScheduleDelete(p, time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s.Flush(ctx)

	for _, p := range paths {
		assert.NoFileExists(t, p)
	}
	assert.Equal(t, 0, s.Pending())
}

func TestScratchStorage_FlushWithoutPending(t *testing.T) {
	s := newTestScratch(t)

	done := make(chan struct{})
	go func() {
		s.Flush(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Flush blocked with nothing pending")
	}
}

func TestScratchStorage_ScheduleDeleteTwiceKeepsFirstDeadline(t *testing.T) {
	s := newTestScratch(t)
	path := s.NewPath("6")
	writeFile(t, path)

	s.ScheduleDelete(path, 20*time.Millisecond)
	s.ScheduleDelete(path, time.Hour)
	assert.Equal(t, 1, s.Pending())

	s.Flush(context.Background())
	assert.NoFileExists(t, path)
}

func TestScratchStorage_CleanupOlderThan(t *testing.T) {
	s := newTestScratch(t)

	stale := s.NewPath("100")
	fresh := s.NewPath("200")
	other := filepath.Join(s.Dir(), "keep.pdf")
	for _, p := range []string{stale, fresh, other} {
		writeFile(t, p)
	}
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(other, old, old))

	deleted, err := s.CleanupOlderThan(context.Background(), time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, deleted)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}

func TestScratchStorage_CleanupCancelled(t *testing.T) {
	s := newTestScratch(t)
	writeFile(t, s.NewPath("1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CleanupOlderThan(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
