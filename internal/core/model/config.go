package model

import (
	"errors"
	"time"
)

// ErrUnknownMode indicates a mode tag or value outside the closed set.
var ErrUnknownMode = errors.New("unknown mode")

const (
	DefaultWorkDuration       = 25 * time.Minute
	DefaultShortBreakDuration = 5 * time.Minute
	DefaultLongBreakDuration  = 15 * time.Minute
	DefaultLongBreakEvery     = 4
	DefaultTickInterval       = time.Second
)

// TimerConfig contains runtime settings for the session state machine.
type TimerConfig struct {
	Work       time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration

	// LongBreakEvery routes every n-th completed work period to a long break.
	LongBreakEvery int
	TickInterval   time.Duration
	// AutoStart starts the next period as soon as the previous one completes.
	AutoStart bool
}

// DefaultTimerConfig returns the classic 25/5/15 schedule.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		Work:           DefaultWorkDuration,
		ShortBreak:     DefaultShortBreakDuration,
		LongBreak:      DefaultLongBreakDuration,
		LongBreakEvery: DefaultLongBreakEvery,
		TickInterval:   DefaultTickInterval,
	}
}

// Normalize replaces non-positive fields with defaults.
func (config TimerConfig) Normalize() TimerConfig {
	defaults := DefaultTimerConfig()
	if config.Work <= 0 {
		config.Work = defaults.Work
	}
	if config.ShortBreak <= 0 {
		config.ShortBreak = defaults.ShortBreak
	}
	if config.LongBreak <= 0 {
		config.LongBreak = defaults.LongBreak
	}
	if config.LongBreakEvery <= 0 {
		config.LongBreakEvery = defaults.LongBreakEvery
	}
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	return config
}

// Nominal returns the full-length duration of mode.
func (config TimerConfig) Nominal(mode Mode) time.Duration {
	switch mode {
	case ModeShortBreak:
		return config.ShortBreak
	case ModeLongBreak:
		return config.LongBreak
	default:
		return config.Work
	}
}

// BreakAfter returns the break that follows the given number of completed work periods.
func (config TimerConfig) BreakAfter(completedWorkPeriods int) Mode {
	every := config.LongBreakEvery
	if every <= 0 {
		every = DefaultLongBreakEvery
	}
	if completedWorkPeriods > 0 && completedWorkPeriods%every == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

// NextAfterCompletion returns the mode armed when ended runs out. completed
// is the work period count after the completion has been counted.
func (config TimerConfig) NextAfterCompletion(ended Mode, completed int) Mode {
	if ended == ModeWork {
		return config.BreakAfter(completed)
	}
	return ModeWork
}
