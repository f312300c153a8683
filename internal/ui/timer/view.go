package timer

import (
	"image/color"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/session"
	"pomodoro/internal/ui/format"
)

// View is everything the window shows for one session state.
type View struct {
	Time     string
	Title    string
	Status   string
	Progress float64
	Accent   color.NRGBA

	CanStart bool
	CanPause bool
}

// NewView derives the window contents from a session snapshot.
func NewView(state model.SessionState, config model.TimerConfig) View {
	return View{
		Time:     format.Remaining(state.Remaining),
		Title:    format.ModeTitle(state.Mode),
		Status:   format.Status(state.Mode, state.CompletedWorkPeriods),
		Progress: state.ProgressFraction(config),
		Accent:   format.ModeColor(state.Mode),
		CanStart: !state.Running,
		CanPause: state.Running,
	}
}

// EventView derives the window contents from a session event.
func EventView(event session.Event) View {
	state := model.SessionState{
		Mode:                 event.Mode,
		Remaining:            event.Remaining,
		CompletedWorkPeriods: event.CompletedWorkPeriods,
		Running:              event.Running,
	}
	view := NewView(state, model.TimerConfig{})
	view.Progress = event.Progress
	return view
}
