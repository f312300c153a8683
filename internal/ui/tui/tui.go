package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/session"
)

// Run starts the terminal UI and blocks until the user quits, the event
// stream closes or ctx is cancelled.
func Run(ctx context.Context, controls Controls, events <-chan session.Event, onDone func(ended, next model.Mode)) error {
	program := tea.NewProgram(
		New(controls, events, onDone),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
