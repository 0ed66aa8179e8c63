package preferences

import (
	"time"

	"worktimer/internal/core/model"
	"worktimer/internal/core/timekeeper"
)

const (
	MinVolume = 0.0
	MaxVolume = 1.0
)

// Settings defines editable user preferences.
type Settings struct {
	WorkTime   time.Duration
	RestTime   time.Duration
	TargetTime time.Duration

	SoundEnabled bool
	Volume       float64

	IdlePause      bool
	IdlePauseAfter time.Duration
}

// DefaultSettings returns the settings used when no file exists yet.
func DefaultSettings(config model.Config) Settings {
	return Settings{
		WorkTime:       config.WorkTime,
		RestTime:       config.RestTime,
		TargetTime:     config.TargetTime,
		SoundEnabled:   true,
		Volume:         0.8,
		IdlePause:      false,
		IdlePauseAfter: 5 * time.Minute,
	}
}

// DefaultPlan converts settings to the plan pre-filled in the main window.
func (settings Settings) DefaultPlan() timekeeper.Plan {
	return timekeeper.Plan{
		Work:   settings.WorkTime,
		Rest:   settings.RestTime,
		Target: settings.TargetTime,
	}
}
