package jobs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveStale(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name string, age time.Duration) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		mtime := time.Now().Add(-age)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	writeFile("stale.parquet.tmp", 2*time.Hour)
	writeFile("fresh.parquet.tmp", time.Minute)
	writeFile("data.parquet", 3*time.Hour)

	job := NewCleanupJob(dir, ".tmp", time.Hour, time.Minute)

	removed, err := job.RemoveStale(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(filepath.Join(dir, "stale.parquet.tmp"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "fresh.parquet.tmp"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "data.parquet"))
	assert.NoError(t, err)
}

func TestRemoveStaleMissingDir(t *testing.T) {
	job := NewCleanupJob(filepath.Join(t.TempDir(), "absent"), ".tmp", time.Hour, time.Minute)

	removed, err := job.RemoveStale(time.Now())
	assert.NoError(t, err)
	assert.Zero(t, removed)
}

func TestStartStop(t *testing.T) {
	job := NewCleanupJob(t.TempDir(), ".tmp", time.Hour, 50*time.Millisecond)

	job.Start()
	time.Sleep(20 * time.Millisecond)
	job.Stop()
}
