package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"worktimer/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkSeconds      int      `yaml:"work_seconds"`
	RestSeconds      int      `yaml:"rest_seconds"`
	TargetSeconds    int      `yaml:"target_seconds"`
	SoundEnabled     *bool    `yaml:"sound_enabled"`
	Volume           *float64 `yaml:"volume"`
	IdlePause        bool     `yaml:"idle_pause"`
	IdlePauseMinutes int      `yaml:"idle_pause_minutes"`
}

// ConfigDir returns the directory holding settings and history. A non-empty
// override wins over the OS user config directory.
func ConfigDir(appName, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

// SettingsPath returns the settings file inside dir.
func SettingsPath(dir string) string {
	return filepath.Join(dir, settingsFileName)
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, defaults are returned.
func LoadSettings(path string, defaults preferences.Settings) (preferences.Settings, error) {
	settings := defaults

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	soundEnabled := settings.SoundEnabled
	volume := settings.Volume
	fileData := yamlSettings{
		WorkSeconds:      int(settings.WorkTime / time.Second),
		RestSeconds:      int(settings.RestTime / time.Second),
		TargetSeconds:    int(settings.TargetTime / time.Second),
		SoundEnabled:     &soundEnabled,
		Volume:           &volume,
		IdlePause:        settings.IdlePause,
		IdlePauseMinutes: int(settings.IdlePauseAfter / time.Minute),
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.WorkSeconds > 0 {
		settings.WorkTime = time.Duration(fileData.WorkSeconds) * time.Second
	}
	if fileData.RestSeconds > 0 {
		settings.RestTime = time.Duration(fileData.RestSeconds) * time.Second
	}
	if fileData.TargetSeconds > 0 {
		settings.TargetTime = time.Duration(fileData.TargetSeconds) * time.Second
	}
	if fileData.IdlePauseMinutes > 0 {
		settings.IdlePauseAfter = time.Duration(fileData.IdlePauseMinutes) * time.Minute
	}

	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.Volume != nil && *fileData.Volume >= preferences.MinVolume && *fileData.Volume <= preferences.MaxVolume {
		settings.Volume = *fileData.Volume
	}

	settings.IdlePause = fileData.IdlePause
}
