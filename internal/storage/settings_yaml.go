package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"pomodoro/internal/core/model"
)

type yamlSettings struct {
	WorkMinutes         int   `yaml:"work_minutes"`
	ShortBreakMinutes   int   `yaml:"short_break_minutes"`
	LongBreakMinutes    int   `yaml:"long_break_minutes"`
	LongBreakEvery      int   `yaml:"long_break_every"`
	AutoStart           bool  `yaml:"auto_start"`
	SoundEnabled        *bool `yaml:"sound_enabled"`
	NotificationEnabled *bool `yaml:"notification_enabled"`
	LaunchAtLogin       bool  `yaml:"launch_at_login"`
}

// LoadSettings reads user preferences from YAML.
// If the settings file does not exist, default settings are returned.
func LoadSettings(dir string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(SettingsPath(dir))
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
func SaveSettings(dir string, settings model.Settings) error {
	fileData := yamlSettings{
		WorkMinutes:         int(settings.WorkDuration / time.Minute),
		ShortBreakMinutes:   int(settings.ShortBreakDuration / time.Minute),
		LongBreakMinutes:    int(settings.LongBreakDuration / time.Minute),
		LongBreakEvery:      settings.LongBreakEvery,
		AutoStart:           settings.AutoStart,
		SoundEnabled:        &settings.SoundEnabled,
		NotificationEnabled: &settings.NotificationEnabled,
		LaunchAtLogin:       settings.LaunchAtLogin,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := writeFileAtomic(SettingsPath(dir), serialized); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.WorkDuration = time.Duration(fileData.WorkMinutes) * time.Minute
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreakDuration = time.Duration(fileData.ShortBreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreakDuration = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	if fileData.LongBreakEvery > 0 {
		settings.LongBreakEvery = fileData.LongBreakEvery
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.NotificationEnabled != nil {
		settings.NotificationEnabled = *fileData.NotificationEnabled
	}

	settings.AutoStart = fileData.AutoStart
	settings.LaunchAtLogin = fileData.LaunchAtLogin
}
