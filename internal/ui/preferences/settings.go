package preferences

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pomodoro/internal/core/model"
)

// ErrInvalidField reports a form value that is not a positive whole number.
var ErrInvalidField = errors.New("must be a positive whole number")

const maxMinutes = 24 * 60

// Form holds the raw text of the preferences window.
type Form struct {
	WorkMinutes       string
	ShortBreakMinutes string
	LongBreakMinutes  string
	LongBreakEvery    string

	AutoStart           bool
	SoundEnabled        bool
	NotificationEnabled bool
	LaunchAtLogin       bool
}

// FormFromSettings fills a Form from stored settings.
func FormFromSettings(settings model.Settings) Form {
	return Form{
		WorkMinutes:         minutes(settings.WorkDuration),
		ShortBreakMinutes:   minutes(settings.ShortBreakDuration),
		LongBreakMinutes:    minutes(settings.LongBreakDuration),
		LongBreakEvery:      strconv.Itoa(settings.LongBreakEvery),
		AutoStart:           settings.AutoStart,
		SoundEnabled:        settings.SoundEnabled,
		NotificationEnabled: settings.NotificationEnabled,
		LaunchAtLogin:       settings.LaunchAtLogin,
	}
}

// Settings validates the form and returns the resulting settings.
func (form Form) Settings() (model.Settings, error) {
	var settings model.Settings
	var errs []error

	parse := func(field, value string, limit int) int {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || parsed <= 0 || parsed > limit {
			errs = append(errs, fmt.Errorf("%s: %w", field, ErrInvalidField))
			return 0
		}
		return parsed
	}

	settings.WorkDuration = time.Duration(parse("work", form.WorkMinutes, maxMinutes)) * time.Minute
	settings.ShortBreakDuration = time.Duration(parse("short break", form.ShortBreakMinutes, maxMinutes)) * time.Minute
	settings.LongBreakDuration = time.Duration(parse("long break", form.LongBreakMinutes, maxMinutes)) * time.Minute
	settings.LongBreakEvery = parse("long break every", form.LongBreakEvery, 100)
	settings.AutoStart = form.AutoStart
	settings.SoundEnabled = form.SoundEnabled
	settings.NotificationEnabled = form.NotificationEnabled
	settings.LaunchAtLogin = form.LaunchAtLogin

	if err := errors.Join(errs...); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

func minutes(value time.Duration) string {
	return strconv.Itoa(int(value / time.Minute))
}
