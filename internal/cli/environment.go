package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"pomodoro/internal/config"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/session"
	"pomodoro/internal/logging"
	"pomodoro/internal/storage"
)

// environment is what every command needs: logger, settings and the
// progress store.
type environment struct {
	dataDir  string
	logger   *slog.Logger
	settings atomic.Pointer[model.Settings]
	store    session.ProgressStore
	closers  []func() error
}

func (a *app) openEnvironment() (*environment, error) {
	dataDir, err := a.runtime.ResolveDataDir(appName)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	logger, closeLog, err := logging.New(logging.Options{
		Debug:    a.runtime.Debug,
		File:     a.runtime.LogFile,
		MaxFiles: a.runtime.MaxLogFiles,
		AppName:  appName,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	env := &environment{dataDir: dataDir, logger: logger}
	env.closers = append(env.closers, closeLog)

	settings, err := storage.LoadSettings(dataDir)
	if err != nil {
		logger.Warn("load settings failed, using defaults", "error", err)
	}
	env.settings.Store(&settings)

	store, closeStore, err := openStore(a.runtime.Store, dataDir, logger)
	if err != nil {
		_ = env.Close()
		return nil, err
	}
	env.store = store
	if closeStore != nil {
		env.closers = append(env.closers, closeStore)
	}
	logger.Info("environment ready",
		"data_dir", dataDir,
		"store", a.runtime.Store,
	)
	return env, nil
}

func openStore(kind, dataDir string, logger *slog.Logger) (session.ProgressStore, func() error, error) {
	switch kind {
	case config.StoreSQLite:
		store, err := storage.NewSQLiteProgressStore(storage.DatabasePath(dataDir), logger)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StoreYAML, "":
		return storage.NewYAMLProgressStore(storage.ProgressPath(dataDir)), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStore, kind)
	}
}

// Settings returns the latest loaded settings.
func (env *environment) Settings() model.Settings {
	return *env.settings.Load()
}

// restoreSession loads progress and builds the session from current settings.
func (env *environment) restoreSession(ctx context.Context) *session.Session {
	return session.Restore(ctx, env.Settings().TimerConfig(), session.Options{
		Store:  env.store,
		Logger: env.logger,
	})
}

// watchSettings applies external edits of the settings file to the session
// until ctx is done.
func (env *environment) watchSettings(ctx context.Context, sess *session.Session, onChange func(model.Settings)) error {
	return storage.WatchSettings(ctx, env.dataDir, env.logger, func(settings model.Settings) {
		env.settings.Store(&settings)
		sess.UpdateConfig(settings.TimerConfig())
		if onChange != nil {
			onChange(settings)
		}
	})
}

// Close releases the store and log file.
func (env *environment) Close() error {
	var errs []error
	for i := len(env.closers) - 1; i >= 0; i-- {
		errs = append(errs, env.closers[i]())
	}
	env.closers = nil
	return errors.Join(errs...)
}
