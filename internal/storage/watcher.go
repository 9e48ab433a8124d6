package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is called after the watched document has been reloaded
// because its content changed on disk.
type ChangeCallback func()

// Watch monitors the JSON document for out-of-band edits (the project list
// is maintained by editing the file directly) and reloads the store when the
// content hash changes, then calls cb. Events are debounced with a short
// settle timer so editors that save in bursts (truncate + write, or write +
// rename) trigger a single reload.
//
// The watch is placed on the parent directory rather than the file itself,
// so it survives atomic replace-by-rename saves, including the store's own.
func Watch(ctx context.Context, store *JSONFile, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(store.Path())); err != nil {
		return err
	}

	last, err := store.Checksum()
	if err != nil {
		logger.Warn("watcher: initial checksum failed", slog.String("error", err.Error()))
	}
	logger.Info("watcher: started", slog.String("document", store.Path()))

	// settleTimer debounces bursts of file-system events.
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	scheduleSettle := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(200 * time.Millisecond)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-settleCh:
			cs, csErr := store.Checksum()
			if csErr != nil {
				logger.Warn("watcher: checksum failed", slog.String("error", csErr.Error()))
				continue
			}
			if cs == last {
				continue
			}
			last = cs
			if reloadErr := store.Reload(); reloadErr != nil {
				logger.Warn("watcher: reload failed", slog.String("error", reloadErr.Error()))
				continue
			}
			logger.Debug("watcher: document reloaded")
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != store.Path() {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			scheduleSettle()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
