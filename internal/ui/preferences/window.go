// Package preferences implements the settings window.
package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	onSave        func(model.Settings)
	work          *widget.Entry
	shortBreak    *widget.Entry
	longBreak     *widget.Entry
	longEvery     *widget.Entry
	autoStart     *widget.Check
	sound         *widget.Check
	notifications *widget.Check
	launchAtLogin *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("Pomodoro Settings")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		work:          widget.NewEntry(),
		shortBreak:    widget.NewEntry(),
		longBreak:     widget.NewEntry(),
		longEvery:     widget.NewEntry(),
		autoStart:     widget.NewCheck("Start the next period automatically", nil),
		sound:         widget.NewCheck("Play a sound when a period ends", nil),
		notifications: widget.NewCheck("Show a desktop notification", nil),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
	}
	prefs.UpdateSettings(settings)

	durations := widget.NewForm(
		widget.NewFormItem("Work (min)", prefs.work),
		widget.NewFormItem("Short break (min)", prefs.shortBreak),
		widget.NewFormItem("Long break (min)", prefs.longBreak),
		widget.NewFormItem("Long break every", prefs.longEvery),
	)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		durations,
		widget.NewLabelWithStyle("Behaviour", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.autoStart,
		prefs.sound,
		prefs.notifications,
		prefs.launchAtLogin,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 360))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	form := FormFromSettings(settings)
	prefs.work.SetText(form.WorkMinutes)
	prefs.shortBreak.SetText(form.ShortBreakMinutes)
	prefs.longBreak.SetText(form.LongBreakMinutes)
	prefs.longEvery.SetText(form.LongBreakEvery)
	prefs.autoStart.SetChecked(form.AutoStart)
	prefs.sound.SetChecked(form.SoundEnabled)
	prefs.notifications.SetChecked(form.NotificationEnabled)
	prefs.launchAtLogin.SetChecked(form.LaunchAtLogin)
}

func (prefs *Window) handleSave() {
	settings, err := Form{
		WorkMinutes:         prefs.work.Text,
		ShortBreakMinutes:   prefs.shortBreak.Text,
		LongBreakMinutes:    prefs.longBreak.Text,
		LongBreakEvery:      prefs.longEvery.Text,
		AutoStart:           prefs.autoStart.Checked,
		SoundEnabled:        prefs.sound.Checked,
		NotificationEnabled: prefs.notifications.Checked,
		LaunchAtLogin:       prefs.launchAtLogin.Checked,
	}.Settings()
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}
