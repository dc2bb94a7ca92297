package jobs

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// CleanupJob periodically removes temp files left behind by interrupted
// uploads.
type CleanupJob struct {
	dataDir    string
	tempSuffix string
	maxAge     time.Duration
	interval   time.Duration
	done       chan struct{}
}

func NewCleanupJob(dataDir, tempSuffix string, maxAge, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		dataDir:    dataDir,
		tempSuffix: tempSuffix,
		maxAge:     maxAge,
		interval:   interval,
		done:       make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	count, err := j.RemoveStale(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to clean up stale uploads")
	} else if count > 0 {
		log.Info().Int("count", count).Msg("cleaned up stale uploads")
	}
}

// RemoveStale deletes temp files whose mtime is older than maxAge relative
// to now and reports how many were removed.
func (j *CleanupJob) RemoveStale(now time.Time) (int, error) {
	entries, err := os.ReadDir(j.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), j.tempSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < j.maxAge {
			continue
		}

		path := filepath.Join(j.dataDir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("failed to remove stale temp file")
			continue
		}
		removed++
	}

	return removed, nil
}
