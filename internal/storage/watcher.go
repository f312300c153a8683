package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"pomodoro/internal/core/model"
)

// WatchSettings reloads the settings file whenever it changes on disk and
// passes the result to onChange. It blocks until ctx is done.
// The directory is watched rather than the file so atomic replaces are seen.
func WatchSettings(ctx context.Context, dir string, log *slog.Logger, onChange func(model.Settings)) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(SettingsPath(dir))
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			settings, err := LoadSettings(dir)
			if err != nil {
				log.Warn("reload settings failed", "error", err)
				continue
			}
			log.Debug("settings reloaded", "path", target)
			onChange(settings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("settings watcher error", "error", err)
		}
	}
}
