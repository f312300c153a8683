package model

import "time"

// Settings defines editable user preferences.
type Settings struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	LongBreakEvery     int
	AutoStart          bool

	SoundEnabled        bool
	NotificationEnabled bool
	LaunchAtLogin       bool
}

// DefaultSettings returns default settings.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:        DefaultWorkDuration,
		ShortBreakDuration:  DefaultShortBreakDuration,
		LongBreakDuration:   DefaultLongBreakDuration,
		LongBreakEvery:      DefaultLongBreakEvery,
		SoundEnabled:        true,
		NotificationEnabled: true,
	}
}

// TimerConfig converts settings to TimerConfig.
func (settings Settings) TimerConfig() TimerConfig {
	return TimerConfig{
		Work:           settings.WorkDuration,
		ShortBreak:     settings.ShortBreakDuration,
		LongBreak:      settings.LongBreakDuration,
		LongBreakEvery: settings.LongBreakEvery,
		TickInterval:   DefaultTickInterval,
		AutoStart:      settings.AutoStart,
	}.Normalize()
}
