package storage

import (
	"context"
	"testing"
	"time"

	"worktimer/internal/ui/preferences"
)

func TestWatchSettingsReloadsOnWrite(t *testing.T) {
	path := SettingsPath(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan preferences.Settings, 8)
	done := make(chan error, 1)
	go func() {
		done <- WatchSettings(ctx, path, testDefaults(), func(settings preferences.Settings) {
			changes <- settings
		})
	}()

	updated := testDefaults()
	updated.WorkTime = 45 * time.Minute

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case settings := <-changes:
			if settings.WorkTime == 45*time.Minute {
				cancel()
				if err := <-done; err != nil {
					t.Errorf("WatchSettings() error: %v", err)
				}
				return
			}
		case <-ticker.C:
			// The watcher may not be registered yet, so keep writing until it sees one.
			if err := SaveSettings(path, updated); err != nil {
				t.Fatalf("SaveSettings() error: %v", err)
			}
		case <-deadline:
			t.Fatal("settings change was not observed")
		}
	}
}
