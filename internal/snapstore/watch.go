package snapstore

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch notifies onChange whenever snapshot files appear or disappear in
// dir, until ctx is cancelled. Only events for files matching the snapshot
// naming trigger a callback. The watcher runs in the calling goroutine.
func Watch(ctx context.Context, dir string, logger *slog.Logger, onChange func()) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("Watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("Watch %s: %w", dir, err)
	}
	logger.Debug("watching snapshot dir", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Write) {
				continue
			}
			if _, isSnap := parseName(filepath.Base(ev.Name)); !isSnap {
				continue
			}
			logger.Debug("snapshot dir changed", "file", ev.Name, "op", ev.Op.String())
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("snapshot watcher error", "error", err)
		}
	}
}
