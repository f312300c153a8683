package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pomodoro/internal/platform"
	"pomodoro/internal/ui/tui"
)

func (a *app) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:     "tui",
		Short:   "Run the timer in the terminal",
		Long:    "Run the timer in the terminal. Keys: s start, p pause, r reset, m switch mode, q quit.",
		Aliases: []string{"term"},
		Args:    cobra.NoArgs,
		RunE:    a.runTUI,
	}
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
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

	notifier := &completionNotifier{
		settings: env.Settings,
		sound:    platform.NewSoundPlayer(),
		logger:   env.logger,
	}
	events := sess.Subscribe(64)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer cancel()
		return tui.Run(groupCtx, sess, events, notifier.periodComplete)
	})
	if a.runtime.WatchSettings {
		group.Go(func() error {
			if err := env.watchSettings(groupCtx, sess, nil); err != nil {
				env.logger.Warn("settings watcher stopped", "error", err)
			}
			return nil
		})
	}
	return group.Wait()
}
