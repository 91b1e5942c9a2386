package initializers

import (
	"context"
	"os"
	"sabbatical-backend/config"
	staffdirectory "sabbatical-backend/lib/staff-directory"
	rostersyncworker "sabbatical-backend/lib/staff-directory/roster-sync-worker"
	"time"

	log "github.com/sirupsen/logrus"
)

func InitDirectory(ctx context.Context) {
	staffdirectory.NewHandler()
	path := config.Conf.Directory.RosterFile
	if path == "" {
		return
	}
	modified := preloadRoster(ctx, path)
	interval := time.Duration(config.Conf.Directory.RosterSyncIntervalSec) * time.Second
	if interval <= 0 {
		return
	}
	worker := rostersyncworker.NewWorker(path, interval, staffdirectory.UploadRoster)
	worker.MarkLoaded(modified)
	go worker.Run(ctx)
}

// preloadRoster loads a staff export shipped with the deployment and returns its modification time.
func preloadRoster(ctx context.Context, path string) time.Time {
	logger := log.WithField("file", path)
	file, err := os.Open(path)
	if err != nil {
		logger.WithError(err).Error("failed to open roster file")
		return time.Time{}
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		logger.WithError(err).Error("failed to stat roster file")
		return time.Time{}
	}
	loaded, err := staffdirectory.UploadRoster(ctx, file)
	if err != nil {
		logger.WithError(err).Error("failed to load roster file")
		return time.Time{}
	}
	logger.WithField("rows", loaded).Info("staff roster preloaded")
	return info.ModTime()
}
