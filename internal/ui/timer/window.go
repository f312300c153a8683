// Package timer implements the main desktop window.
package timer

import (
	"context"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/ui/animation"
)

// Controls are the manual operations the window buttons trigger.
type Controls interface {
	Start()
	Pause()
	Reset()
	SwitchMode()
}

// Window manages the main timer UI.
type Window struct {
	window      fyne.Window
	background  *canvas.Rectangle
	titleLabel  *canvas.Text
	timerLabel  *canvas.Text
	statusLabel *widget.Label
	progress    *widget.ProgressBar
	startButton *widget.Button
	pauseButton *widget.Button
	engine      *animation.Engine
	// cancelCtx and current are only touched on the fyne thread.
	cancelCtx context.CancelFunc
	current   View
}

// New creates the timer window. Closing it hides the window; the tray
// keeps the application alive.
func New(app fyne.App, controls Controls) *Window {
	window := app.NewWindow("Pomodoro")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	background := canvas.NewRectangle(color.NRGBA{A: 0x30})
	background.CornerRadius = theme.Padding() * 2

	titleLabel := canvas.NewText("Work", color.White)
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 20

	timerLabel := canvas.NewText("25:00", color.White)
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 64

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter
	statusLabel.Wrapping = fyne.TextWrapWord

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	startButton := widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), controls.Start)
	startButton.Importance = widget.HighImportance
	pauseButton := widget.NewButtonWithIcon("Pause", theme.MediaPauseIcon(), controls.Pause)
	resetButton := widget.NewButtonWithIcon("Reset", theme.MediaReplayIcon(), controls.Reset)
	modeButton := widget.NewButtonWithIcon("Mode", theme.ViewRefreshIcon(), controls.SwitchMode)

	dial := container.NewStack(background, container.NewPadded(container.NewVBox(
		titleLabel,
		timerLabel,
		progress,
	)))
	buttons := container.NewGridWithColumns(4, startButton, pauseButton, resetButton, modeButton)
	content := container.NewBorder(nil, container.NewVBox(statusLabel, buttons), nil, nil,
		container.NewPadded(dial))

	window.SetContent(content)
	window.Resize(fyne.NewSize(360, 320))
	window.SetCloseIntercept(window.Hide)

	timer := &Window{
		window:      window,
		background:  background,
		titleLabel:  titleLabel,
		timerLabel:  timerLabel,
		statusLabel: statusLabel,
		progress:    progress,
		startButton: startButton,
		pauseButton: pauseButton,
	}
	timer.engine = animation.New(animation.DefaultConfig(), nil, func(value float64) {
		fyne.Do(func() {
			timer.progress.SetValue(value)
		})
	})
	return timer
}

// Show brings the window forward.
func (timer *Window) Show() {
	timer.window.Show()
	timer.window.RequestFocus()
}

// QuitOnClose makes closing the window quit the application, for desktops
// without a system tray.
func (timer *Window) QuitOnClose() {
	timer.window.SetCloseIntercept(nil)
	timer.window.SetMaster()
}

// Render shows view. It may be called from any goroutine.
func (timer *Window) Render(view View) {
	fyne.Do(func() {
		timer.renderUnsafe(view)
	})
}

// RenderImmediate shows view without easing the progress bar, used when the
// mode changes and the dial restarts.
func (timer *Window) RenderImmediate(view View) {
	fyne.Do(func() {
		timer.stopEngine()
		timer.engine.Jump(view.Progress)
		timer.current.Progress = view.Progress
		timer.renderUnsafe(view)
	})
}

// Close stops animations.
func (timer *Window) Close() {
	timer.engine.Stop()
}

func (timer *Window) renderUnsafe(view View) {
	if view.Accent != timer.current.Accent {
		accent := view.Accent
		accent.A = 0x40
		timer.background.FillColor = accent
		timer.background.Refresh()
	}
	if view.Title != timer.current.Title {
		timer.titleLabel.Text = view.Title
		timer.titleLabel.Color = view.Accent
		timer.titleLabel.Refresh()
	}
	if view.Time != timer.current.Time {
		timer.timerLabel.Text = view.Time
		timer.timerLabel.Refresh()
	}
	if view.Status != timer.current.Status {
		timer.statusLabel.SetText(view.Status)
	}
	setEnabled(timer.startButton, view.CanStart)
	setEnabled(timer.pauseButton, view.CanPause)

	if view.Progress != timer.current.Progress {
		timer.animateProgress(view.Progress)
	}
	timer.current = view
}

func (timer *Window) animateProgress(target float64) {
	timer.stopEngine()
	ctx, cancel := context.WithCancel(context.Background())
	timer.cancelCtx = cancel
	timer.engine.AnimateTo(ctx, target)
}

func (timer *Window) stopEngine() {
	if timer.cancelCtx != nil {
		timer.cancelCtx()
		timer.cancelCtx = nil
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}
