package watch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// File monitors path and calls onChange each time it is written or
// re-created. It runs until ctx is cancelled.
//
// onChange runs on the watcher goroutine; a slow callback delays the next
// event but never drops the watch.
func File(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: new watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch: add %s: %w", path, err)
	}

	slog.Info("watch: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				// Atomic saves remove the old inode; keep following the path.
				if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					_ = watcher.Add(path)
				}
				continue
			}

			slog.Debug("watch: change detected", "path", path, "op", event.Op.String())
			onChange()

			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch: watcher error", "path", path, "err", err)
		}
	}
}
