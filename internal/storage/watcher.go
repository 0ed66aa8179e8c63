package storage

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"worktimer/internal/ui/preferences"

	"github.com/fsnotify/fsnotify"
)

// WatchSettings reloads the settings file whenever it changes on disk and
// passes the result to onChange. It blocks until ctx is done.
// The parent directory is watched so editors that replace the file are seen.
func WatchSettings(ctx context.Context, path string, defaults preferences.Settings, onChange func(preferences.Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create settings watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch settings directory: %w", err)
	}

	target := filepath.Clean(path)
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
			settings, err := LoadSettings(path, defaults)
			if err != nil {
				log.Printf("settings reload: %v", err)
				continue
			}
			onChange(settings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("settings watcher: %v", err)
		}
	}
}
