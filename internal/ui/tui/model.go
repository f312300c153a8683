// Package tui provides a Bubble Tea front-end for the timer.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/session"
	"pomodoro/internal/ui/format"
)

const (
	defaultBarWidth = 40
	maxBarWidth     = 72
)

// Controls is the part of the session the terminal UI drives.
type Controls interface {
	Start()
	Pause()
	Reset()
	SwitchMode()
	Snapshot() model.SessionState
	Config() model.TimerConfig
}

type eventMsg session.Event

type eventsClosedMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	controls Controls
	events   <-chan session.Event
	onDone   func(ended, next model.Mode)

	state   model.SessionState
	config  model.TimerConfig
	message string

	keys keyMap
	help help.Model
	bar  progress.Model
}

// New creates the model. onDone, if set, is called after every natural
// completion with the mode that ended and the one that follows.
func New(controls Controls, events <-chan session.Event, onDone func(ended, next model.Mode)) Model {
	state := controls.Snapshot()
	return Model{
		controls: controls,
		events:   events,
		onDone:   onDone,
		state:    state,
		config:   controls.Config(),
		keys:     newKeyMap(),
		help:     help.New(),
		bar:      newBar(state.Mode, defaultBarWidth),
	}
}

// Init starts listening for session events.
func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// Update handles keys, resizes and session events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		width := msg.Width - 10
		if width > maxBarWidth {
			width = maxBarWidth
		}
		if width < 10 {
			width = 10
		}
		m.bar.Width = width
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		m.apply(session.Event(msg))
		return m, m.waitForEvent()

	case eventsClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.message = ""
		m.controls.Start()
	case key.Matches(msg, m.keys.Pause):
		m.controls.Pause()
	case key.Matches(msg, m.keys.Toggle):
		m.message = ""
		if m.state.Running {
			m.controls.Pause()
		} else {
			m.controls.Start()
		}
	case key.Matches(msg, m.keys.Reset):
		m.controls.Reset()
	case key.Matches(msg, m.keys.Mode):
		m.message = ""
		m.controls.SwitchMode()
	}
	return m, nil
}

func (m *Model) apply(event session.Event) {
	switch event.Type {
	case session.EventPeriodComplete:
		next := m.config.NextAfterCompletion(event.Mode, event.CompletedWorkPeriods)
		m.message = format.CompletionMessage(event.Mode, next)
		m.state.CompletedWorkPeriods = event.CompletedWorkPeriods
		if m.onDone != nil {
			m.onDone(event.Mode, next)
		}
		return
	case session.EventModeChange, session.EventStateChange:
		m.config = m.controls.Config()
	}
	if event.Mode != m.state.Mode {
		m.bar = newBar(event.Mode, m.bar.Width)
	}
	m.state = model.SessionState{
		Mode:                 event.Mode,
		Remaining:            event.Remaining,
		CompletedWorkPeriods: event.CompletedWorkPeriods,
		Running:              event.Running,
	}
}

// View renders the timer.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle(m.state.Mode).Render(format.ModeTitle(m.state.Mode)))
	b.WriteString("\n\n")
	clock := timeStyle.Render(format.Remaining(m.state.Remaining))
	if !m.state.Running {
		clock += "  " + pausedStyle.Render("paused")
	}
	b.WriteString(clock)
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.state.ProgressFraction(m.config)))
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(format.Status(m.state.Mode, m.state.CompletedWorkPeriods)))
	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(m.message))
	}

	frame := frameStyle.BorderForeground(accent(m.state.Mode)).Render(b.String())
	return lipgloss.JoinVertical(lipgloss.Left, frame, m.help.View(m.keys)) + "\n"
}

func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(event)
	}
}

func newBar(mode model.Mode, width int) progress.Model {
	bar := progress.New(
		progress.WithSolidFill(format.ModeHex(mode)),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	return bar
}
