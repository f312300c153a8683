// Package cli wires the timer into cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pomodoro/internal/config"
)

const (
	appName = "pomodoro"
	appID   = "io.pomodoro.timer"
)

type app struct {
	runtime config.Runtime

	storeFlag   string
	dataDirFlag string
	debugFlag   bool
	logFileFlag string
	noWatchFlag bool
}

// NewRootCmd creates the root command. Running it without a subcommand
// opens the desktop timer.
func NewRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Pomodoro interval timer",
		Long: `A Pomodoro timer that cycles through work periods, short breaks and long
breaks. Progress is saved between runs. Every fourth work period is followed
by a long break unless configured otherwise in the settings file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadRuntime,
		RunE:              a.runGUI,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.storeFlag, "store", "", "Progress store backend: yaml or sqlite (env POMODORO_STORE)")
	flags.StringVar(&a.dataDirFlag, "data-dir", "", "Directory for settings and progress (env POMODORO_DATA_DIR)")
	flags.BoolVar(&a.debugFlag, "debug", false, "Write debug logs (env POMODORO_DEBUG)")
	flags.StringVar(&a.logFileFlag, "log-file", "", "Write logs to this file (env POMODORO_LOG_FILE)")
	flags.BoolVar(&a.noWatchFlag, "no-watch", false, "Do not reload the settings file when it changes")

	rootCmd.AddCommand(
		a.newGUICmd(),
		a.newTUICmd(),
		a.newStatusCmd(),
		a.newResetProgressCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadRuntime reads the environment and lets explicit flags win.
func (a *app) loadRuntime(cmd *cobra.Command, _ []string) error {
	runtime, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("store") {
		runtime.Store = a.storeFlag
	}
	if flags.Changed("data-dir") {
		runtime.DataDir = a.dataDirFlag
	}
	if flags.Changed("debug") {
		runtime.Debug = a.debugFlag
	}
	if flags.Changed("log-file") {
		runtime.LogFile = a.logFileFlag
	}
	if a.noWatchFlag {
		runtime.WatchSettings = false
	}
	if err := runtime.Validate(); err != nil {
		return err
	}
	a.runtime = runtime
	return nil
}
