package cli

import (
	"github.com/spf13/cobra"

	"pomodoro/internal/ui/format"
)

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show saved progress and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := a.openEnvironment()
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			settings := env.Settings()
			config := settings.TimerConfig()
			progress, err := env.store.LoadProgress(cmd.Context())
			if err != nil {
				return err
			}
			progress = progress.Sanitize(config)

			cmd.Printf("Mode: %s\n", format.ModeTitle(progress.Mode))
			cmd.Printf("Remaining: %s\n", format.Remaining(progress.Remaining))
			cmd.Printf("Completed pomodoros: %d\n", progress.CompletedWorkPeriods)
			cmd.Printf("Next break: %s\n", format.ModeTitle(config.BreakAfter(progress.CompletedWorkPeriods+1)))
			cmd.Printf("Durations: work %s, short break %s, long break %s (long break every %d)\n",
				format.Remaining(config.Work),
				format.Remaining(config.ShortBreak),
				format.Remaining(config.LongBreak),
				config.LongBreakEvery,
			)
			cmd.Printf("Store: %s in %s\n", a.runtime.Store, env.dataDir)
			return nil
		},
	}
}
