package rostersyncworker

import (
	"context"
	"io"
	"os"
	baseworker "sabbatical-backend/lib/utils/base-worker"
	"sabbatical-backend/lib/utils/helpers"
	"time"
)

// Loader stores a roster read from r and returns the number of rows loaded.
type Loader func(ctx context.Context, r io.Reader) (int, error)

type Worker struct {
	base     *baseworker.BaseImpl
	path     string
	load     Loader
	modified time.Time
}

// NewWorker reloads the roster file at path whenever its modification time changes.
func NewWorker(path string, interval time.Duration, load Loader) *Worker {
	return &Worker{
		base: baseworker.NewInstance("roster-sync", interval, interval),
		path: path,
		load: load,
	}
}

func (w *Worker) Run(ctx context.Context) {
	w.base.Run(ctx, w.Sync)
}

// MarkLoaded records the file version already in the directory.
func (w *Worker) MarkLoaded(modified time.Time) {
	w.modified = modified
}

func (w *Worker) Sync(ctx context.Context) {
	if helpers.IsContextDone(ctx) {
		return
	}
	logger := w.base.GetLogger().WithField("file", w.path)
	info, err := os.Stat(w.path)
	if err != nil {
		logger.WithError(err).Error("failed to stat roster file")
		return
	}
	if !info.ModTime().After(w.modified) {
		return
	}
	file, err := os.Open(w.path)
	if err != nil {
		logger.WithError(err).Error("failed to open roster file")
		return
	}
	defer file.Close()
	loaded, err := w.load(ctx, file)
	if err != nil {
		logger.WithError(err).Error("failed to reload roster file")
		return
	}
	w.modified = info.ModTime()
	logger.WithField("rows", loaded).Info("staff roster reloaded")
}
