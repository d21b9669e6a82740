package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driving"
	"github.com/custodia-labs/meshdrop/internal/logger"
)

// Ensure Reloader implements the interface.
var _ driving.FolderReloader = (*Reloader)(nil)

// Reloader reselects a folder through the viewer each time a batch of
// changes arrives. Earlier models stay resident, as with any selection.
type Reloader struct {
	viewer   driving.ViewerService
	watcher  driven.FolderWatcher
	debounce time.Duration
}

// NewReloader creates a reloader.
func NewReloader(viewer driving.ViewerService, watcher driven.FolderWatcher, watch domain.WatchSettings) *Reloader {
	return &Reloader{
		viewer:   viewer,
		watcher:  watcher,
		debounce: time.Duration(watch.DebounceMS) * time.Millisecond,
	}
}

// Run watches dir until ctx is cancelled.
func (r *Reloader) Run(ctx context.Context, dir string) error {
	if r.watcher == nil {
		return errors.New("folder watcher not configured")
	}
	changes, err := r.watcher.Watch(ctx, dir, r.debounce)
	if err != nil {
		return err
	}
	logger.Info("watching %s for changes", dir)

	for batch := range changes {
		if len(batch) == 0 {
			continue
		}
		logger.With(
			zap.String("dir", dir),
			zap.Int("changes", len(batch)),
			zap.String("first", batch[0].Path),
		).Debug("folder changed")

		// A folder briefly without a manifest is expected mid-save.
		if _, err := r.viewer.SelectFolder(ctx, dir); err != nil {
			logger.Warn("reload %s: %v", dir, err)
		}
	}
	return ctx.Err()
}
