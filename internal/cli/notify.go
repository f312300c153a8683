package cli

import (
	"context"
	"log/slog"
	"time"

	"pomodoro/internal/core/model"
	"pomodoro/internal/platform"
	"pomodoro/internal/ui/format"
)

const soundTimeout = 10 * time.Second

type soundPlayer interface {
	Play(ctx context.Context, cue platform.Cue) error
}

// completionNotifier announces finished periods according to the user's
// sound and notification preferences.
type completionNotifier struct {
	settings func() model.Settings
	notify   func(title, body string)
	sound    soundPlayer
	logger   *slog.Logger
}

func (notifier *completionNotifier) periodComplete(ended, next model.Mode) {
	settings := notifier.settings()
	if settings.NotificationEnabled && notifier.notify != nil {
		notifier.notify(format.ModeTitle(ended)+" finished", format.CompletionMessage(ended, next))
	}
	if settings.SoundEnabled && notifier.sound != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), soundTimeout)
			defer cancel()
			if err := notifier.sound.Play(ctx, platform.CueFor(ended)); err != nil {
				notifier.logger.Warn("play completion sound failed", "error", err)
			}
		}()
	}
}
