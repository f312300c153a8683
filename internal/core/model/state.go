package model

import "time"

// SessionState is the observable aggregate owned by the session state machine.
type SessionState struct {
	Mode                 Mode
	Remaining            time.Duration
	CompletedWorkPeriods int
	Running              bool
}

// Progress is the persisted subset of SessionState.
type Progress struct {
	CompletedWorkPeriods int
	Mode                 Mode
	Remaining            time.Duration
}

// DefaultProgress returns the state of a fresh install.
func DefaultProgress(config TimerConfig) Progress {
	return Progress{
		Mode:      ModeWork,
		Remaining: config.Normalize().Work,
	}
}

// Sanitize makes restored progress satisfy the session invariants.
// An unknown mode falls back to work and remaining outside (0, nominal] becomes nominal.
func (progress Progress) Sanitize(config TimerConfig) Progress {
	config = config.Normalize()
	if !progress.Mode.Valid() {
		progress.Mode = ModeWork
	}
	if progress.CompletedWorkPeriods < 0 {
		progress.CompletedWorkPeriods = 0
	}
	nominal := config.Nominal(progress.Mode)
	if progress.Remaining <= 0 || progress.Remaining > nominal {
		progress.Remaining = nominal
	}
	return progress
}

// ProgressFraction returns how much of the current period has elapsed, in [0, 1].
func (state SessionState) ProgressFraction(config TimerConfig) float64 {
	total := config.Normalize().Nominal(state.Mode)
	if total <= 0 {
		return 1
	}
	progress := float64(total-state.Remaining) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}
