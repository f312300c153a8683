package cli

import (
	"github.com/spf13/cobra"
)

func (a *app) newResetProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-progress",
		Short: "Clear the completed pomodoro counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := a.openEnvironment()
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			sess := env.restoreSession(cmd.Context())
			previous := sess.Snapshot().CompletedWorkPeriods
			sess.ResetProgress()
			sess.Close()

			cmd.Printf("Cleared %d completed pomodoros\n", previous)
			return nil
		},
	}
}
