package session

import (
	"time"

	"pomodoro/internal/core/model"
)

// EventType defines the type of Session event.
type EventType string

const (
	EventStateChange    EventType = "state_change"
	EventTick           EventType = "tick"
	EventModeChange     EventType = "mode_change"
	EventPeriodComplete EventType = "period_complete"
)

// Event represents a Session update for observers.
// For EventPeriodComplete, Mode is the mode whose period just ended.
type Event struct {
	Type                 EventType
	Mode                 model.Mode
	Remaining            time.Duration
	Progress             float64
	CompletedWorkPeriods int
	Running              bool
	At                   time.Time
}
