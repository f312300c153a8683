package cli

import (
	"context"
	"errors"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/session"
	"pomodoro/internal/platform"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/timer"
	"pomodoro/internal/ui/tray"
	"pomodoro/resources"
)

func (a *app) newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the desktop timer (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runGUI,
	}
}

func (a *app) runGUI(cmd *cobra.Command, _ []string) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		cmd.PrintErrln("pomodoro is already running; its window has been brought forward")
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	env, err := a.openEnvironment()
	if err != nil {
		return err
	}
	defer func() {
		_ = env.Close()
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sess := env.restoreSession(ctx)
	defer sess.Close()

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconTomato))

	timerWindow := timer.New(fyneApp, sess)
	defer timerWindow.Close()

	autostart := platform.NewAutostart(appName, executablePath())
	prefsWindow := preferences.New(fyneApp, env.Settings(), func(updated model.Settings) {
		previous := env.Settings()
		if err := storage.SaveSettings(env.dataDir, updated); err != nil {
			env.logger.Error("save settings failed", "error", err)
		}
		env.settings.Store(&updated)
		sess.UpdateConfig(updated.TimerConfig())
		if updated.LaunchAtLogin != previous.LaunchAtLogin {
			if err := autostart.Apply(updated.LaunchAtLogin); err != nil {
				env.logger.Warn("update launch at login failed", "error", err)
			}
		}
	})

	var trayManager *tray.Manager
	desktopApp, hasTray := fyneApp.(desktop.App)
	if hasTray {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow: timerWindow.Show,
			OnToggleStart: func() {
				if sess.Snapshot().Running {
					sess.Pause()
					return
				}
				sess.Start()
			},
			OnReset:       sess.Reset,
			OnSwitchMode:  sess.SwitchMode,
			OnPreferences: prefsWindow.Show,
			OnQuit:        fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconPaused))
	} else {
		env.logger.Info("system tray unsupported, closing the window quits")
	}

	notifier := &completionNotifier{
		settings: env.Settings,
		notify: func(title, body string) {
			fyneApp.SendNotification(fyne.NewNotification(title, body))
		},
		sound:  platform.NewSoundPlayer(),
		logger: env.logger,
	}

	events := sess.Subscribe(64)
	go presentEvents(events, sess, timerWindow, trayManager, desktopApp, notifier)
	go guard.Serve(func() {
		fyne.Do(timerWindow.Show)
	})

	if a.runtime.WatchSettings {
		go func() {
			err := env.watchSettings(ctx, sess, func(settings model.Settings) {
				fyne.Do(func() {
					prefsWindow.UpdateSettings(settings)
				})
			})
			if err != nil {
				env.logger.Warn("settings watcher stopped", "error", err)
			}
		}()
	}

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			fyne.Do(fyneApp.Quit)
		case <-stopped:
		}
	}()

	state := sess.Snapshot()
	timerWindow.RenderImmediate(timer.NewView(state, sess.Config()))
	if trayManager != nil {
		trayManager.Update(state)
	}
	timerWindow.Show()
	if !hasTray {
		timerWindow.QuitOnClose()
	}
	fyneApp.Run()
	close(stopped)
	return nil
}

// presentEvents renders session events until the session closes.
func presentEvents(events <-chan session.Event, sess *session.Session, timerWindow *timer.Window,
	trayManager *tray.Manager, desktopApp desktop.App, notifier *completionNotifier,
) {
	running := false
	for event := range events {
		view := timer.EventView(event)
		switch event.Type {
		case session.EventPeriodComplete:
			next := sess.Config().NextAfterCompletion(event.Mode, event.CompletedWorkPeriods)
			notifier.periodComplete(event.Mode, next)
			continue
		case session.EventModeChange:
			timerWindow.RenderImmediate(view)
		default:
			timerWindow.Render(view)
		}

		state := model.SessionState{
			Mode:                 event.Mode,
			Remaining:            event.Remaining,
			CompletedWorkPeriods: event.CompletedWorkPeriods,
			Running:              event.Running,
		}
		iconChanged := state.Running != running || event.Type == session.EventModeChange
		running = state.Running
		if trayManager == nil {
			continue
		}
		fyne.Do(func() {
			trayManager.Update(state)
			if iconChanged {
				desktopApp.SetSystemTrayIcon(trayIcon(state))
			}
		})
	}
}

func trayIcon(state model.SessionState) fyne.Resource {
	switch {
	case !state.Running:
		return resources.MustIcon(resources.IconPaused)
	case state.Mode.IsBreak():
		return resources.MustIcon(resources.IconBreak)
	default:
		return resources.MustIcon(resources.IconTomato)
	}
}

func executablePath() string {
	path, err := os.Executable()
	if err != nil {
		return ""
	}
	return path
}
