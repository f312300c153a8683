// Package tray exposes the timer controls in the system tray.
package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"pomodoro/internal/core/model"
	"pomodoro/internal/ui/format"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnToggleStart func()
	OnReset       func()
	OnSwitchMode  func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state. Update must run on the fyne thread.
type Manager struct {
	app       desktop.App
	callbacks Callbacks
	status    *fyne.MenuItem
	toggle    *fyne.MenuItem
	quit      *fyne.MenuItem
	lastLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{app: app, callbacks: callbacks}

	manager.status = fyne.NewMenuItem("Starting...", nil)
	manager.status.Disabled = true
	manager.toggle = fyne.NewMenuItem("Start", call(callbacks.OnToggleStart))
	manager.quit = fyne.NewMenuItem("Quit", call(callbacks.OnQuit))
	manager.quit.IsQuit = true

	manager.refreshMenu()
	return manager
}

// Update reflects the session state in the tray menu.
func (manager *Manager) Update(state model.SessionState) {
	label := fmt.Sprintf("%s  %s", format.ModeTitle(state.Mode), format.Remaining(state.Remaining))
	toggle := "Start"
	if state.Running {
		toggle = "Pause"
	} else {
		label += " (paused)"
	}
	if label == manager.lastLabel && manager.toggle.Label == toggle {
		return
	}
	manager.lastLabel = label
	manager.status.Label = label
	manager.toggle.Label = toggle
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Pomodoro",
		manager.status,
		fyne.NewMenuItem("Show timer", call(manager.callbacks.OnShow)),
		fyne.NewMenuItemSeparator(),
		manager.toggle,
		fyne.NewMenuItem("Reset", call(manager.callbacks.OnReset)),
		fyne.NewMenuItem("Switch mode", call(manager.callbacks.OnSwitchMode)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", call(manager.callbacks.OnPreferences)),
		manager.quit,
	))
}

func call(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
